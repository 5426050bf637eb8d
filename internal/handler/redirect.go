package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/linkly/linkly/internal/service"
)

// RedirectHandler handles redirect requests.
type RedirectHandler struct {
	svc    *service.LinkService
	logger *slog.Logger
}

// NewRedirectHandler creates a new RedirectHandler.
func NewRedirectHandler(svc *service.LinkService, logger *slog.Logger) *RedirectHandler {
	return &RedirectHandler{
		svc:    svc,
		logger: logger,
	}
}

// Redirect handles GET /{shortUrl}. Every successful redirect counts one click.
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "shortUrl")

	// Redirects must never be served from a shared cache, or clicks go uncounted.
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=0")

	start := time.Now()
	destination, err := h.svc.Resolve(r.Context(), code)
	duration := time.Since(start)

	if err != nil {
		h.handleRedirectError(w, code, err, duration)
		return
	}

	h.logger.Info("redirect_success",
		"short_code", code,
		"duration_ms", float64(duration.Microseconds())/1000,
	)

	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	http.Redirect(w, r, destination, http.StatusFound)
}

// handleRedirectError handles errors during redirect resolution.
func (h *RedirectHandler) handleRedirectError(w http.ResponseWriter, code string, err error, duration time.Duration) {
	if errors.Is(err, service.ErrNotFound) {
		h.logger.Info("redirect_not_found",
			"short_code", code,
			"duration_ms", float64(duration.Microseconds())/1000,
		)
	}
	handleServiceError(w, h.logger, err)
}
