package dto

import (
	"time"

	"github.com/linkly/linkly/internal/model"
)

// SignupRequest represents the request body for POST /api/users/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for POST /api/users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest is a partial profile update. Absent fields are unchanged.
type UpdateUserRequest struct {
	Name            *string `json:"name,omitempty"`
	ProfilePhoto    *string `json:"profilePhoto,omitempty"`
	CurrentPassword *string `json:"currentPassword,omitempty"`
	NewPassword     *string `json:"newPassword,omitempty"`
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UserResponse is the client view of an account. It never carries the hash.
type UserResponse struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfilePhoto string `json:"profilePhoto"`
}

// UserEnvelope wraps a single user.
type UserEnvelope struct {
	User UserResponse `json:"user"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		ProfilePhoto: user.ProfilePhoto,
	}
}
