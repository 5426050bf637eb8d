// Package main is the entrypoint for the Linkly API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/linkly/linkly/internal/auth"
	"github.com/linkly/linkly/internal/cache"
	"github.com/linkly/linkly/internal/config"
	"github.com/linkly/linkly/internal/handler"
	"github.com/linkly/linkly/internal/metrics"
	"github.com/linkly/linkly/internal/middleware"
	"github.com/linkly/linkly/internal/qrcode"
	"github.com/linkly/linkly/internal/repository"
	"github.com/linkly/linkly/internal/server"
	"github.com/linkly/linkly/internal/service"
	"github.com/linkly/linkly/internal/shortcode"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Metrics
	var (
		recorder       metrics.Recorder = metrics.NewNoop()
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		recorder = metrics.NewPrometheus(registry)
		metricsHandler = metrics.Handler(registry)
	}

	// Database
	repo, err := repository.New(cfg.DatabaseURL, repository.Options{
		MaxAttempts:    cfg.DBConnectAttempts,
		HealthInterval: cfg.DBHealthInterval,
		OnReadyChange:  recorder.SetStoreReady,
		Logger:         logger,
	})
	if err != nil {
		logger.Error("failed to configure database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()

	if err := repo.Connect(ctx); err != nil {
		logger.Error("failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	if cfg.DBAutoMigrate {
		if err := repository.Migrate(cfg.DatabaseURL); err != nil {
			logger.Error("failed to run migrations", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
			os.Exit(1)
		}
		logger.Info("database migrations applied")
	}

	monitorCtx, stopMonitor := context.WithCancel(ctx)
	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		repo.Monitor(monitorCtx)
	}()

	// Session store
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		stopMonitor()
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Services
	hasher, err := auth.NewPasswordHasher(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		logger.Error("invalid password hasher", slog.String("error", err.Error()))
		stopMonitor()
		os.Exit(1)
	}
	sessions := auth.NewSessionManager(cacheClient, cfg.SessionSecret, cfg.SessionTTL)
	accountService := service.NewAccountService(repo, repo, hasher, recorder)
	linkService := service.NewLinkService(
		repo,
		repo,
		shortcode.NewRandom(),
		qrcode.NewPNGEncoder(qrcode.DefaultSize),
		cfg.BaseURL,
		recorder,
	)

	// Router
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	r := handler.NewRouter(handler.RouterConfig{
		Health:             handler.NewHealthHandler(repo, cacheClient),
		Users:              handler.NewUserHandler(accountService, sessions, logger),
		Links:              handler.NewLinkHandler(linkService, logger),
		Redirect:           handler.NewRedirectHandler(linkService, logger),
		Sessions:           sessions,
		Metrics:            metricsHandler,
		CORS:               corsCfg,
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		Logger:             logger,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Registered first, stopped last.
	srv.OnShutdown("database monitor", func(ctx context.Context) error {
		stopMonitor()
		select {
		case <-monitorDone:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"base_url", cfg.BaseURL,
		"env", cfg.AppEnv,
		"password_hasher", cfg.PasswordHasher,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "linkly")
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

// redactURL drops the password from a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError replaces connection URLs in err with their redacted form.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
