package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/linkly/linkly/internal/handler/dto"
)

func strPtr(s string) *string { return &s }

func TestUserHandler_Signup(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/users/signup", dto.SignupRequest{
		Name:     "Ada",
		Email:    "  Ada@Example.COM ",
		Password: "Secret123",
	}, "")

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Errorf("response leaks password field: %s", rec.Body.String())
	}

	var resp dto.AuthResponse
	decode(t, rec, &resp)

	if resp.User.ID == "" || resp.User.Name != "Ada" || resp.User.Email != "ada@example.com" {
		t.Errorf("unexpected user %+v", resp.User)
	}
	if resp.User.ProfilePhoto != "" {
		t.Errorf("expected empty profile photo, got %q", resp.User.ProfilePhoto)
	}
	if resp.Token == "" || resp.ExpiresAt.IsZero() {
		t.Error("expected a session token")
	}
	if api.sessions.Len() != 1 {
		t.Errorf("expected 1 stored session, got %d", api.sessions.Len())
	}
}

func TestUserHandler_SignupErrors(t *testing.T) {
	tests := []struct {
		name       string
		req        dto.SignupRequest
		wantStatus int
		wantError  string
	}{
		{"missing name", dto.SignupRequest{Email: "a@b.c", Password: "Secret123"}, http.StatusBadRequest, "Name is required"},
		{"missing email", dto.SignupRequest{Name: "A", Password: "Secret123"}, http.StatusBadRequest, "Email is required"},
		{"missing password", dto.SignupRequest{Name: "A", Email: "a@b.c"}, http.StatusBadRequest, "Password is required"},
		{"weak password", dto.SignupRequest{Name: "A", Email: "a@b.c", Password: "secret123"}, http.StatusBadRequest, "New password must contain at least one uppercase letter"},
		{"duplicate email", dto.SignupRequest{Name: "A", Email: "TAKEN@example.com", Password: "Secret123"}, http.StatusConflict, "Email already registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			api.signup(t, "taken@example.com")

			rec := api.do(t, http.MethodPost, "/api/users/signup", tt.req, "")
			expectError(t, rec, tt.wantStatus, tt.wantError)
		})
	}
}

func TestUserHandler_Login(t *testing.T) {
	api := newTestAPI(t)
	userID, _ := api.signup(t, "ada@example.com")

	tests := []struct {
		name       string
		req        dto.LoginRequest
		wantStatus int
		wantError  string
	}{
		{"success", dto.LoginRequest{Email: "ADA@example.com", Password: "Secret123"}, http.StatusOK, ""},
		{"unknown email", dto.LoginRequest{Email: "nobody@example.com", Password: "Secret123"}, http.StatusNotFound, "Account not found. Please check your email or sign up."},
		{"wrong password", dto.LoginRequest{Email: "ada@example.com", Password: "Wrong1234"}, http.StatusUnauthorized, "Invalid email or password. Please try again."},
		{"missing password", dto.LoginRequest{Email: "ada@example.com"}, http.StatusBadRequest, "Password is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/api/users/login", tt.req, "")

			if tt.wantStatus != http.StatusOK {
				expectError(t, rec, tt.wantStatus, tt.wantError)
				return
			}

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			var resp dto.AuthResponse
			decode(t, rec, &resp)
			if resp.User.ID != userID || resp.Token == "" {
				t.Errorf("unexpected login response %+v", resp)
			}
		})
	}
}

func TestUserHandler_MeAndLogout(t *testing.T) {
	api := newTestAPI(t)
	userID, token := api.signup(t, "ada@example.com")

	rec := api.do(t, http.MethodGet, "/api/users/me", nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var me dto.UserEnvelope
	decode(t, rec, &me)
	if me.User.ID != userID {
		t.Errorf("expected user %s, got %s", userID, me.User.ID)
	}

	rec = api.do(t, http.MethodPost, "/api/users/logout", nil, token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	// The token no longer verifies once its session is gone.
	rec = api.do(t, http.MethodGet, "/api/users/me", nil, token)
	expectError(t, rec, http.StatusUnauthorized, "")
}

func TestUserHandler_RequiresSession(t *testing.T) {
	api := newTestAPI(t)
	userID, _ := api.signup(t, "ada@example.com")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
	}{
		{"me anonymous", http.MethodGet, "/api/users/me", ""},
		{"logout anonymous", http.MethodPost, "/api/users/logout", ""},
		{"update anonymous", http.MethodPut, "/api/users/" + userID, ""},
		{"urls anonymous", http.MethodGet, "/api/users/" + userID + "/urls", ""},
		{"garbage token", http.MethodGet, "/api/users/me", "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, tt.method, tt.path, dto.UpdateUserRequest{}, tt.token)
			expectError(t, rec, http.StatusUnauthorized, "")
		})
	}
}

func TestUserHandler_OtherUserForbidden(t *testing.T) {
	api := newTestAPI(t)
	victimID, _ := api.signup(t, "victim@example.com")
	_, token := api.signup(t, "mallory@example.com")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"update", http.MethodPut, "/api/users/" + victimID, dto.UpdateUserRequest{Name: strPtr("pwned")}},
		{"password", http.MethodPut, "/api/users/" + victimID + "/password", dto.ChangePasswordRequest{CurrentPassword: "x", NewPassword: "Secret999"}},
		{"urls", http.MethodGet, "/api/users/" + victimID + "/urls", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, tt.method, tt.path, tt.body, token)
			expectError(t, rec, http.StatusForbidden, "")
		})
	}

	victim, err := api.store.GetUserByID(context.Background(), victimID)
	if err != nil {
		t.Fatalf("get victim: %v", err)
	}
	if victim.Name != "Ada" {
		t.Errorf("victim was modified: %+v", victim)
	}
}

func TestUserHandler_Update(t *testing.T) {
	api := newTestAPI(t)
	userID, token := api.signup(t, "ada@example.com")
	path := "/api/users/" + userID

	rec := api.do(t, http.MethodPut, path, dto.UpdateUserRequest{
		Name:         strPtr("Ada Lovelace"),
		ProfilePhoto: strPtr("data:image/png;base64,AAAA"),
	}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.UserEnvelope
	decode(t, rec, &resp)
	if resp.User.Name != "Ada Lovelace" || resp.User.ProfilePhoto != "data:image/png;base64,AAAA" {
		t.Errorf("unexpected user %+v", resp.User)
	}

	// Only one of the password fields is refused.
	rec = api.do(t, http.MethodPut, path, dto.UpdateUserRequest{NewPassword: strPtr("Secret999")}, token)
	expectError(t, rec, http.StatusBadRequest, "")

	rec = api.do(t, http.MethodPut, path, dto.UpdateUserRequest{
		CurrentPassword: strPtr("Wrong1234"),
		NewPassword:     strPtr("Secret999"),
	}, token)
	expectError(t, rec, http.StatusUnauthorized, "Current password is incorrect")

	rec = api.do(t, http.MethodPut, path, dto.UpdateUserRequest{
		CurrentPassword: strPtr("Secret123"),
		NewPassword:     strPtr("short"),
	}, token)
	expectError(t, rec, http.StatusBadRequest, "New password must be at least 8 characters long")

	rec = api.do(t, http.MethodPut, path, dto.UpdateUserRequest{
		CurrentPassword: strPtr("Secret123"),
		NewPassword:     strPtr("Secret999"),
	}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = api.do(t, http.MethodPost, "/api/users/login", dto.LoginRequest{Email: "ada@example.com", Password: "Secret999"}, "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected login with new password to succeed, got %d", rec.Code)
	}
}

func TestUserHandler_ChangePassword(t *testing.T) {
	api := newTestAPI(t)
	userID, token := api.signup(t, "ada@example.com")
	path := "/api/users/" + userID + "/password"

	rec := api.do(t, http.MethodPut, path, dto.ChangePasswordRequest{CurrentPassword: "Wrong1234", NewPassword: "Secret999"}, token)
	expectError(t, rec, http.StatusUnauthorized, "Current password is incorrect")

	rec = api.do(t, http.MethodPut, path, dto.ChangePasswordRequest{CurrentPassword: "Secret123", NewPassword: "SECRET999"}, token)
	expectError(t, rec, http.StatusBadRequest, "New password must contain at least one lowercase letter")

	rec = api.do(t, http.MethodPut, path, dto.ChangePasswordRequest{CurrentPassword: "Secret123", NewPassword: "Secret999"}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.MessageResponse
	decode(t, rec, &resp)
	if resp.Message != "Password updated successfully" {
		t.Errorf("unexpected message %q", resp.Message)
	}

	rec = api.do(t, http.MethodPost, "/api/users/login", dto.LoginRequest{Email: "ada@example.com", Password: "Secret123"}, "")
	expectError(t, rec, http.StatusUnauthorized, "")
}

func TestUserHandler_StoreDown(t *testing.T) {
	api := newTestAPI(t)
	api.store.SetReady(false)

	rec := api.do(t, http.MethodPost, "/api/users/signup", dto.SignupRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "Secret123",
	}, "")

	expectError(t, rec, http.StatusInternalServerError, "Server Error")
}

func TestUserHandler_StaleTokenOnPublicRoutes(t *testing.T) {
	api := newTestAPI(t, "AbCdE12345")
	_, token := api.signup(t, "ada@example.com")

	if rec := api.do(t, http.MethodPost, "/api/short", dto.ShortenRequest{OriginalURL: "https://example.com"}, ""); rec.Code != http.StatusOK {
		t.Fatalf("shorten: expected 200, got %d", rec.Code)
	}
	if rec := api.do(t, http.MethodPost, "/api/users/logout", nil, token); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", rec.Code)
	}

	for _, stale := range []string{token, "not-a-jwt"} {
		rec := api.do(t, http.MethodPost, "/api/users/login", dto.LoginRequest{Email: "ada@example.com", Password: "Secret123"}, stale)
		if rec.Code != http.StatusOK {
			t.Fatalf("login with stale token: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp dto.AuthResponse
		decode(t, rec, &resp)
		if resp.Token == "" || resp.Token == token {
			t.Error("expected a fresh session token")
		}

		rec = api.do(t, http.MethodGet, "/api/url-info/AbCdE12345", nil, stale)
		if rec.Code != http.StatusOK {
			t.Errorf("url-info with stale token: expected 200, got %d", rec.Code)
		}
	}

	rec := api.do(t, http.MethodPost, "/api/users/signup", dto.SignupRequest{Name: "Bob", Email: "bob@example.com", Password: "Secret123"}, token)
	if rec.Code != http.StatusCreated {
		t.Errorf("signup with stale token: expected 201, got %d", rec.Code)
	}

	// Routes that read the session still refuse it.
	rec = api.do(t, http.MethodPost, "/api/short", dto.ShortenRequest{OriginalURL: "https://example.com"}, token)
	expectError(t, rec, http.StatusUnauthorized, "")
}

func TestUserHandler_SignupWithoutSessionStore(t *testing.T) {
	api := newTestAPI(t)
	api.sessions.Err = errors.New("redis down")

	req := dto.SignupRequest{Name: "Ada", Email: "ada@example.com", Password: "Secret123"}
	rec := api.do(t, http.MethodPost, "/api/users/signup", req, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.AuthResponse
	decode(t, rec, &resp)
	if resp.User.ID == "" || resp.User.Email != "ada@example.com" {
		t.Errorf("unexpected user %+v", resp.User)
	}
	if resp.Token != "" {
		t.Errorf("expected no token, got %q", resp.Token)
	}

	// Login fails while sessions cannot be stored, then works once they can.
	login := dto.LoginRequest{Email: "ada@example.com", Password: "Secret123"}
	rec = api.do(t, http.MethodPost, "/api/users/login", login, "")
	expectError(t, rec, http.StatusInternalServerError, "Server Error")

	api.sessions.Err = nil
	rec = api.do(t, http.MethodPost, "/api/users/login", login, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after recovery, got %d", rec.Code)
	}

	rec = api.do(t, http.MethodPost, "/api/users/signup", req, "")
	expectError(t, rec, http.StatusConflict, "Email already registered")
}

func TestUserHandler_ProfilePhotoOverBodyLimit(t *testing.T) {
	api := newTestAPI(t)
	userID, token := api.signup(t, "ada@example.com")

	// The test router allows 1 MiB bodies.
	photo := "data:image/png;base64," + strings.Repeat("A", 2<<20)
	raw, _ := json.Marshal(dto.UpdateUserRequest{ProfilePhoto: &photo})

	for _, streamed := range []bool{false, true} {
		req := httptest.NewRequest(http.MethodPut, "/api/users/"+userID, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		if streamed {
			req.ContentLength = -1
		}
		rec := httptest.NewRecorder()
		api.router.ServeHTTP(rec, req)

		expectError(t, rec, http.StatusRequestEntityTooLarge, "Request body too large")
	}

	small := "data:image/png;base64,AAAA"
	rec := api.do(t, http.MethodPut, "/api/users/"+userID, dto.UpdateUserRequest{ProfilePhoto: &small}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a small photo, got %d: %s", rec.Code, rec.Body.String())
	}
}
