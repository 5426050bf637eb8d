package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"testing"
	"time"
)

func testServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(http.NotFoundHandler(), Options{
		Port:            0,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}, logger)
}

func TestShutdown_RunsComponentsInReverseOrder(t *testing.T) {
	srv := testServer()

	var order []string
	for _, name := range []string{"postgres", "redis", "monitor"} {
		name := name
		srv.OnShutdown(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	if err := srv.Shutdown(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []string{"monitor", "redis", "postgres"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestShutdown_CollectsErrors(t *testing.T) {
	srv := testServer()
	errRedis := errors.New("redis close failed")

	called := false
	srv.OnShutdown("postgres", func(ctx context.Context) error {
		called = true
		return nil
	})
	srv.OnShutdown("redis", func(ctx context.Context) error {
		return errRedis
	})

	err := srv.Shutdown()
	if !errors.Is(err, errRedis) {
		t.Fatalf("expected redis error, got %v", err)
	}
	if !called {
		t.Error("expected postgres shutdown to run after a failing component")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	srv := testServer()

	stopped := make(chan struct{})
	srv.OnShutdown("component", func(ctx context.Context) error {
		close(stopped)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	select {
	case <-stopped:
	default:
		t.Error("expected registered component to be stopped")
	}
}
