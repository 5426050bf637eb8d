package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/linkly/linkly/internal/model"
)

// Common errors for link repository operations.
var (
	ErrLinkNotFound    = errors.New("link not found")
	ErrShortCodeExists = errors.New("short code already exists")
)

const linkColumns = `id, original_url, short_code, clicks, user_id, created_at`

// CreateLink inserts a new link into the database.
// Returns ErrShortCodeExists when the short code is already taken.
func (r *Repository) CreateLink(ctx context.Context, link *model.Link) error {
	query := `
		INSERT INTO links (id, original_url, short_code, clicks, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		link.ID,
		link.OriginalURL,
		link.ShortCode,
		link.Clicks,
		link.UserID,
		link.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrShortCodeExists
		}
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

// GetLinkByShortCode retrieves a link by its short code without side effects.
func (r *Repository) GetLinkByShortCode(ctx context.Context, shortCode string) (*model.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE short_code = $1`

	link, err := scanLink(r.pool.QueryRow(ctx, query, shortCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link by short code: %w", err)
	}

	return link, nil
}

// IncrementClicks adds one to the click counter and returns the updated link
// in a single statement, so concurrent visits never lose a count.
// This is the hot path for redirects.
func (r *Repository) IncrementClicks(ctx context.Context, shortCode string) (*model.Link, error) {
	query := `
		UPDATE links
		SET clicks = clicks + 1
		WHERE short_code = $1
		RETURNING ` + linkColumns

	link, err := scanLink(r.pool.QueryRow(ctx, query, shortCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to increment clicks: %w", err)
	}

	return link, nil
}

// ListLinksByUser returns every link owned by userID, newest first.
// An unknown user yields an empty slice.
func (r *Repository) ListLinksByUser(ctx context.Context, userID string) ([]*model.Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	links := make([]*model.Link, 0)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// scanLink scans a single row into a Link model.
func scanLink(row pgx.Row) (*model.Link, error) {
	var link model.Link
	err := row.Scan(
		&link.ID,
		&link.OriginalURL,
		&link.ShortCode,
		&link.Clicks,
		&link.UserID,
		&link.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &link, nil
}
