package repository

import (
	"context"
	"fmt"

	"vv-api/internal/domain"
	"vv-api/pkg/database"

	"github.com/jackc/pgx/v5"
)

type mediaRepository struct {
	db *database.PostgresDB
}

// NewMediaRepository creates a Postgres-backed media repository
func NewMediaRepository(db *database.PostgresDB) MediaRepository {
	return &mediaRepository{db: db}
}

// Create records a completed upload
func (r *mediaRepository) Create(ctx context.Context, item *domain.MediaItem) error {
	query := `
		INSERT INTO media (id, user_id, title, description, type, category, url, tags, privacy, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		item.ID,
		item.UserID,
		item.Title,
		item.Description,
		item.Type,
		item.Category,
		item.URL,
		item.Tags,
		item.Privacy,
		item.Status,
	).Scan(&item.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create media item: %w", err)
	}
	return nil
}

// GetByID gets a media item by id. Privacy is enforced by the caller,
// not here, so the owner can always load their own private items.
func (r *mediaRepository) GetByID(ctx context.Context, id string) (*domain.MediaItem, error) {
	query := `
		SELECT id, user_id, title, COALESCE(description, ''), type, category, url,
		       tags, privacy, views, likes, status, created_at
		FROM media
		WHERE id = $1
	`

	var item domain.MediaItem
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.UserID,
		&item.Title,
		&item.Description,
		&item.Type,
		&item.Category,
		&item.URL,
		&item.Tags,
		&item.Privacy,
		&item.Views,
		&item.Likes,
		&item.Status,
		&item.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrMediaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media item: %w", err)
	}
	return &item, nil
}

// ListVisible returns the feed as seen by viewerID: public approved
// items plus the viewer's own uploads in any privacy or review state.
// Unlisted items are reachable by direct id only and stay out of the feed.
func (r *mediaRepository) ListVisible(ctx context.Context, viewerID string, limit int) ([]domain.MediaItem, error) {
	query := `
		SELECT id, user_id, title, COALESCE(description, ''), type, category, url,
		       tags, privacy, views, likes, status, created_at
		FROM media
		WHERE (privacy = 'public' AND status = 'approved')
		   OR ($1 <> '' AND user_id = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, viewerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	defer rows.Close()

	var items []domain.MediaItem
	for rows.Next() {
		var item domain.MediaItem
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Title,
			&item.Description,
			&item.Type,
			&item.Category,
			&item.URL,
			&item.Tags,
			&item.Privacy,
			&item.Views,
			&item.Likes,
			&item.Status,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// AddEngagement folds buffered view/like counters into the stored totals
func (r *mediaRepository) AddEngagement(ctx context.Context, id string, views, likes int64) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE media SET views = views + $1, likes = likes + $2 WHERE id = $3`,
		views, likes, id)
	if err != nil {
		return fmt.Errorf("failed to update engagement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMediaNotFound
	}
	return nil
}

// UpdateStatus moves a media item through the review pipeline
func (r *mediaRepository) UpdateStatus(ctx context.Context, id string, status domain.MediaStatus) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE media SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update media status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMediaNotFound
	}
	return nil
}
