// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/linkly/linkly/internal/metrics"
	"github.com/linkly/linkly/internal/model"
	"github.com/linkly/linkly/internal/qrcode"
	"github.com/linkly/linkly/internal/repository"
	"github.com/linkly/linkly/internal/shortcode"
)

// maxCodeAttempts bounds short code regeneration on collisions.
const maxCodeAttempts = 3

// LinkStore persists links.
type LinkStore interface {
	CreateLink(ctx context.Context, link *model.Link) error
	GetLinkByShortCode(ctx context.Context, shortCode string) (*model.Link, error)
	IncrementClicks(ctx context.Context, shortCode string) (*model.Link, error)
	ListLinksByUser(ctx context.Context, userID string) ([]*model.Link, error)
}

// Readiness reports whether the backing store is currently reachable.
type Readiness interface {
	Ready() bool
}

// LinkService handles link business logic.
type LinkService struct {
	links   LinkStore
	ready   Readiness
	codes   shortcode.Generator
	qr      qrcode.Encoder
	baseURL string
	metrics metrics.Recorder
}

// NewLinkService creates a new LinkService.
func NewLinkService(
	links LinkStore,
	ready Readiness,
	codes shortcode.Generator,
	qr qrcode.Encoder,
	baseURL string,
	recorder metrics.Recorder,
) *LinkService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &LinkService{
		links:   links,
		ready:   ready,
		codes:   codes,
		qr:      qr,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		metrics: recorder,
	}
}

// ShortenInput defines input for shortening a URL.
type ShortenInput struct {
	OriginalURL string
	// UserID is empty for anonymous links.
	UserID string
}

// ShortenResult is the outcome of a successful Shorten.
type ShortenResult struct {
	Link         *model.Link
	Code         string
	FullShortURL string
	QRCodeImage  string
	Clicks       int64
}

// LinkInfo is the public view of a link.
type LinkInfo struct {
	OriginalURL  string
	Code         string
	FullShortURL string
	Clicks       int64
}

// Shorten creates a link for input.OriginalURL under a fresh short code.
// A colliding code is regenerated up to maxCodeAttempts times.
func (s *LinkService) Shorten(ctx context.Context, input ShortenInput) (*ShortenResult, error) {
	originalURL := strings.TrimSpace(input.OriginalURL)
	if originalURL == "" {
		return nil, ErrOriginalURLRequired
	}

	if err := s.checkReady(); err != nil {
		return nil, err
	}

	var owner *string
	if input.UserID != "" {
		owner = &input.UserID
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := s.codes.Generate()
		fullShortURL := s.FullShortURL(code)

		// Encode before inserting so a failed encode leaves nothing behind.
		qr, err := s.qr.DataURI(fullShortURL)
		if err != nil {
			return nil, wrapInternal("encode qr code", err)
		}

		link := &model.Link{
			ID:          ulid.Make().String(),
			OriginalURL: originalURL,
			ShortCode:   code,
			Clicks:      0,
			UserID:      owner,
			CreatedAt:   time.Now().UTC(),
		}

		err = s.links.CreateLink(ctx, link)
		if errors.Is(err, repository.ErrShortCodeExists) {
			s.metrics.IncShortCodeCollision()
			continue
		}
		if err != nil {
			return nil, wrapInternal("create link", err)
		}

		s.metrics.IncLinkCreated()

		return &ShortenResult{
			Link:         link,
			Code:         code,
			FullShortURL: fullShortURL,
			QRCodeImage:  qr,
			Clicks:       link.Clicks,
		}, nil
	}

	return nil, ErrCodeSpaceExhausted
}

// Resolve counts a visit to code and returns the destination URL.
// Unknown codes change nothing.
func (s *LinkService) Resolve(ctx context.Context, code string) (string, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveRedirectDuration(time.Since(start))
	}()

	// Paths like /favicon.ico never reach the store.
	if !shortcode.Valid(code) {
		s.metrics.IncRedirect(metrics.RedirectNotFound)
		return "", ErrLinkNotFound
	}

	if err := s.checkReady(); err != nil {
		return "", err
	}

	link, err := s.links.IncrementClicks(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			s.metrics.IncRedirect(metrics.RedirectNotFound)
			return "", ErrLinkNotFound
		}
		return "", wrapInternal("increment clicks", err)
	}

	s.metrics.IncRedirect(metrics.RedirectFound)
	return link.OriginalURL, nil
}

// GetInfo returns the link for code without counting a visit.
func (s *LinkService) GetInfo(ctx context.Context, code string) (*LinkInfo, error) {
	if !shortcode.Valid(code) {
		return nil, ErrLinkNotFound
	}

	if err := s.checkReady(); err != nil {
		return nil, err
	}

	link, err := s.links.GetLinkByShortCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, wrapInternal("get link", err)
	}

	return &LinkInfo{
		OriginalURL:  link.OriginalURL,
		Code:         link.ShortCode,
		FullShortURL: s.FullShortURL(link.ShortCode),
		Clicks:       link.Clicks,
	}, nil
}

// ListForUser returns the user's links newest first.
// A user without links gets an empty slice.
func (s *LinkService) ListForUser(ctx context.Context, userID string) ([]*model.Link, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}

	links, err := s.links.ListLinksByUser(ctx, userID)
	if err != nil {
		return nil, wrapInternal("list links", err)
	}
	if links == nil {
		links = []*model.Link{}
	}

	return links, nil
}

// FullShortURL returns the public URL of code.
func (s *LinkService) FullShortURL(code string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, code)
}

// BaseURL returns the configured base URL without a trailing slash.
func (s *LinkService) BaseURL() string {
	return s.baseURL
}

func (s *LinkService) checkReady() error {
	if s.ready != nil && !s.ready.Ready() {
		return ErrStoreUnavailable
	}
	return nil
}
