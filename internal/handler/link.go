package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkly/linkly/internal/auth"
	"github.com/linkly/linkly/internal/handler/dto"
	"github.com/linkly/linkly/internal/service"
)

// LinkHandler handles HTTP requests for link operations.
type LinkHandler struct {
	svc    *service.LinkService
	logger *slog.Logger
}

// NewLinkHandler creates a new LinkHandler.
func NewLinkHandler(svc *service.LinkService, logger *slog.Logger) *LinkHandler {
	return &LinkHandler{
		svc:    svc,
		logger: logger,
	}
}

// Shorten handles POST /api/short.
// With a session the link is owned by the session user. A body userId that
// does not match the session is refused.
func (h *LinkHandler) Shorten(w http.ResponseWriter, r *http.Request) {
	var req dto.ShortenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	owner := auth.UserIDFromContext(r.Context())
	if req.UserID != "" && req.UserID != owner {
		writeError(w, http.StatusForbidden, CodeForbidden, "Cannot create links for another user")
		return
	}

	result, err := h.svc.Shorten(r.Context(), service.ShortenInput{
		OriginalURL: req.OriginalURL,
		UserID:      owner,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("link_created",
		"link_id", result.Link.ID,
		"short_code", result.Code,
		"anonymous", owner == "",
	)

	writeJSON(w, http.StatusOK, dto.ShortenResponse{
		Message:      "URL shortened successfully",
		ShortURL:     result.Code,
		FullShortURL: result.FullShortURL,
		QRCodeImg:    result.QRCodeImage,
		Clicks:       result.Clicks,
	})
}

// Info handles GET /api/url-info/{shortUrl}. It does not count a visit.
func (h *LinkHandler) Info(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "shortUrl")

	info, err := h.svc.GetInfo(r.Context(), code)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.URLInfoResponse{
		OriginalURL:  info.OriginalURL,
		ShortURL:     info.Code,
		FullShortURL: info.FullShortURL,
		Clicks:       info.Clicks,
	})
}

// ListForUser handles GET /api/users/{userId}/urls.
func (h *LinkHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	links, err := h.svc.ListForUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToURLListResponse(links, h.svc.BaseURL()))
}
