// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/linkly/linkly/internal/model"
)

// ShortenRequest represents the request body for POST /api/short.
type ShortenRequest struct {
	OriginalURL string `json:"originalUrl"`
	// UserID, when present, must match the caller's session.
	UserID string `json:"userId,omitempty"`
}

// ShortenResponse is returned after a link is created.
type ShortenResponse struct {
	Message      string `json:"message"`
	ShortURL     string `json:"shortUrl"`
	FullShortURL string `json:"fullShortUrl"`
	QRCodeImg    string `json:"qrCodeImg"`
	Clicks       int64  `json:"clicks"`
}

// URLInfoResponse is the public view of a link.
type URLInfoResponse struct {
	OriginalURL  string `json:"originalUrl"`
	ShortURL     string `json:"shortUrl"`
	FullShortURL string `json:"fullShortUrl"`
	Clicks       int64  `json:"clicks"`
}

// LinkResponse represents an owned link in a user's list.
type LinkResponse struct {
	ID           string    `json:"_id"`
	OriginalURL  string    `json:"originalUrl"`
	ShortURL     string    `json:"shortUrl"`
	FullShortURL string    `json:"fullShortUrl"`
	Clicks       int64     `json:"clicks"`
	UserID       string    `json:"userId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// URLListResponse wraps a user's links.
type URLListResponse struct {
	URLs []LinkResponse `json:"urls"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToLinkResponse converts a Link model to LinkResponse DTO.
func ToLinkResponse(link *model.Link, baseURL string) LinkResponse {
	return LinkResponse{
		ID:           link.ID,
		OriginalURL:  link.OriginalURL,
		ShortURL:     link.ShortCode,
		FullShortURL: baseURL + "/" + link.ShortCode,
		Clicks:       link.Clicks,
		UserID:       link.OwnerID(),
		CreatedAt:    link.CreatedAt,
	}
}

// ToURLListResponse converts links to URLListResponse.
// An empty list encodes as [] rather than null.
func ToURLListResponse(links []*model.Link, baseURL string) *URLListResponse {
	responses := make([]LinkResponse, len(links))
	for i, link := range links {
		responses[i] = ToLinkResponse(link, baseURL)
	}
	return &URLListResponse{URLs: responses}
}
