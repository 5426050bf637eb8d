package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/linkly/linkly/internal/auth"
	"github.com/linkly/linkly/internal/model"
)

// SessionVerifier resolves a bearer token to a live session.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*model.Session, error)
}

// Session returns a middleware that attaches the caller's session to the
// request context. Requests without an Authorization header pass through
// anonymously; a token that does not verify is rejected with 401.
func Session(verifier SessionVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, present := bearerToken(r)
			if !present {
				next.ServeHTTP(w, r)
				return
			}

			session, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrSessionRevoked) {
					logger.Warn("authentication failed",
						slog.String("reason", err.Error()),
						slog.String("endpoint", r.Method+" "+r.URL.Path),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired session")
					return
				}

				logger.Error("session lookup failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server Error")
				return
			}

			setLoggedUser(r.Context(), session.UserID)
			ctx := auth.ContextWithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects anonymous requests with 401.
// Must be applied after Session.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.SessionFromContext(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSelf rejects a session whose user differs from the user id in the
// named path parameter. Must be applied after RequireSession.
func RequireSelf(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.UserIDFromContext(r.Context()) != chi.URLParam(r, param) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "You can only access your own account")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// present reports whether an Authorization header was sent at all.
func bearerToken(r *http.Request) (token string, present bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, value, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", true
	}
	return strings.TrimSpace(value), true
}
