// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account.
// PasswordHash never leaves the server: it is excluded from JSON.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ProfilePhoto string    `json:"profilePhoto"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasCustomPhoto reports whether the user uploaded an avatar.
// An empty photo means the client should render its default avatar.
func (u *User) HasCustomPhoto() bool {
	return u.ProfilePhoto != ""
}
