// Package repository provides database access layer.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotConnected is returned by Connect when every attempt failed.
var ErrNotConnected = errors.New("database not connected")

// Options tune how the repository connects and watches the database.
type Options struct {
	// MaxAttempts bounds the initial connection loop. Zero means 1.
	MaxAttempts int
	// HealthInterval is how often Monitor pings the database.
	HealthInterval time.Duration
	// OnReadyChange, if set, is called whenever the ready flag flips.
	OnReadyChange func(ready bool)
	Logger        *slog.Logger
}

// pinger is the part of the pool that Connect and Monitor ping.
type pinger interface {
	Ping(ctx context.Context) error
}

// Repository provides database access methods.
type Repository struct {
	pool   *pgxpool.Pool
	ready  atomic.Bool
	logger *slog.Logger
	opts   Options

	pinger  pinger
	backoff func(attempt int) time.Duration
}

// New creates a new Repository with a connection pool.
// The pool connects lazily; call Connect to wait for the database.
func New(databaseURL string, opts Options) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if opts.HealthInterval <= 0 {
		opts.HealthInterval = 5 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Repository{
		pool:    pool,
		logger:  logger,
		opts:    opts,
		pinger:  pool,
		backoff: ReconnectDelay,
	}, nil
}

// Connect pings the database until it answers or MaxAttempts is exhausted,
// sleeping with exponential backoff between attempts.
func (r *Repository) Connect(ctx context.Context) error {
	var lastErr error
	for attempt := 0; attempt < r.opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := r.backoff(attempt - 1)
			r.logger.Warn("database unreachable, retrying",
				"attempt", attempt,
				"delay", delay.String(),
				"error", lastErr,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		lastErr = r.pinger.Ping(pingCtx)
		cancel()
		if lastErr == nil {
			r.setReady(true)
			return nil
		}
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrNotConnected, r.opts.MaxAttempts, lastErr)
}

// Monitor pings the database every HealthInterval and flips the ready flag
// on transitions. While the database is down it pings on the reconnect
// backoff schedule instead. It returns when ctx is cancelled.
func (r *Repository) Monitor(ctx context.Context) {
	timer := time.NewTimer(r.opts.HealthInterval)
	defer timer.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := r.pinger.Ping(pingCtx)
		cancel()

		if err != nil {
			if r.ready.Load() {
				r.logger.Error("database connection lost", "error", err)
			}
			r.setReady(false)
			timer.Reset(r.backoff(failures))
			failures++
			continue
		}

		if !r.ready.Load() {
			r.logger.Info("database connection restored", "failed_checks", failures)
		}
		failures = 0
		r.setReady(true)
		timer.Reset(r.opts.HealthInterval)
	}
}

// Ready reports whether the last health check succeeded.
func (r *Repository) Ready() bool {
	return r.ready.Load()
}

func (r *Repository) setReady(v bool) {
	if r.ready.Swap(v) != v && r.opts.OnReadyChange != nil {
		r.opts.OnReadyChange(v)
	}
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.setReady(false)
	r.pool.Close()
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer adding methods to Repository.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}
