// Package model defines domain entities for the application.
package model

import "time"

// Link represents a shortened URL entity.
type Link struct {
	ID          string `json:"_id"`
	OriginalURL string `json:"originalUrl"`
	ShortCode   string `json:"shortUrl"`
	Clicks      int64  `json:"clicks"`
	// UserID is nil for links created anonymously.
	UserID    *string   `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsOwnedBy reports whether the link belongs to the given user.
func (l *Link) IsOwnedBy(userID string) bool {
	return l.UserID != nil && *l.UserID == userID
}

// OwnerID returns the owning user id, or "" for anonymous links.
func (l *Link) OwnerID() string {
	if l.UserID == nil {
		return ""
	}
	return *l.UserID
}
