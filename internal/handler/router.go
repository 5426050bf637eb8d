package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/linkly/linkly/internal/middleware"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Health   *HealthHandler
	Users    *UserHandler
	Links    *LinkHandler
	Redirect *RedirectHandler
	Sessions middleware.SessionVerifier
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler

	CORS               middleware.CORSConfig
	IsDevelopment      bool
	MaxRequestBodySize int64
	Logger             *slog.Logger
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	h := New()
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	}

	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		// No session is read here, so a stale token cannot block a fresh login.
		r.Post("/users/signup", cfg.Users.Signup)
		r.Post("/users/login", cfg.Users.Login)
		r.Get("/url-info/{shortUrl}", cfg.Links.Info)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(cfg.Sessions, cfg.Logger))

			// A session is optional here; the handler checks ownership.
			r.Post("/short", cfg.Links.Shorten)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSession)

				r.Post("/users/logout", cfg.Users.Logout)
				r.Get("/users/me", cfg.Users.Me)

				r.Route("/users/{userId}", func(r chi.Router) {
					r.Use(middleware.RequireSelf("userId"))

					r.Put("/", cfg.Users.Update)
					r.Put("/password", cfg.Users.ChangePassword)
					r.Get("/urls", cfg.Links.ListForUser)
				})
			})
		})
	})

	r.Get("/{shortUrl}", cfg.Redirect.Redirect)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
