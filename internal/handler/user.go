package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkly/linkly/internal/auth"
	"github.com/linkly/linkly/internal/handler/dto"
	"github.com/linkly/linkly/internal/service"
)

// UserHandler handles account endpoints.
type UserHandler struct {
	svc      *service.AccountService
	sessions *auth.SessionManager
	logger   *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.AccountService, sessions *auth.SessionManager, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:      svc,
		sessions: sessions,
		logger:   logger,
	}
}

// Signup handles POST /api/users/signup.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_signed_up", "user_id", user.ID)

	// The account exists from here on. Without a session the client still
	// gets 201 and has to log in.
	token, session, err := h.sessions.Issue(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("signup_session_failed", "user_id", user.ID, "error", err)
		writeJSON(w, http.StatusCreated, dto.UserEnvelope{User: dto.ToUserResponse(user)})
		return
	}

	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		User:      dto.ToUserResponse(user),
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	})
}

// Login handles POST /api/users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", user.ID)

	token, session, err := h.sessions.Issue(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		User:      dto.ToUserResponse(user),
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout handles POST /api/users/logout. The session token stops verifying.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "Authentication required")
		return
	}

	if err := h.sessions.Revoke(r.Context(), session.ID); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_logged_out", "user_id", session.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetUser(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserEnvelope{User: dto.ToUserResponse(user)})
}

// Update handles PUT /api/users/{userId}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), service.UpdateProfileInput{
		UserID:          chi.URLParam(r, "userId"),
		Name:            req.Name,
		ProfilePhoto:    req.ProfilePhoto,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_updated",
		"user_id", user.ID,
		"password_changed", req.CurrentPassword != nil && *req.CurrentPassword != "" &&
			req.NewPassword != nil && *req.NewPassword != "",
	)
	writeJSON(w, http.StatusOK, dto.UserEnvelope{User: dto.ToUserResponse(user)})
}

// ChangePassword handles PUT /api/users/{userId}/password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := chi.URLParam(r, "userId")
	if err := h.svc.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("password_changed", "user_id", userID)
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Password updated successfully"})
}
