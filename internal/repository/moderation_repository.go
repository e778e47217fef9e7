package repository

import (
	"context"
	"fmt"
	"time"

	"vv-api/internal/domain"
	"vv-api/pkg/database"

	"github.com/jackc/pgx/v5"
)

type moderationRepository struct {
	db *database.PostgresDB
}

// NewModerationRepository creates a Postgres-backed moderation queue
func NewModerationRepository(db *database.PostgresDB) ModerationRepository {
	return &moderationRepository{db: db}
}

const moderationColumns = `
	id, content_type, content_ref, content_excerpt, COALESCE(reported_by, ''),
	ai_safety_score, COALESCE(ai_recommendation, ''), status,
	COALESCE(reviewed_by, ''), reviewed_at, created_at
`

// Enqueue appends a pending item to the queue
func (r *moderationRepository) Enqueue(ctx context.Context, item *domain.ModerationItem) error {
	query := `
		INSERT INTO moderation_items
			(id, content_type, content_ref, content_excerpt, reported_by, ai_safety_score, ai_recommendation, status)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, NULLIF($7, ''), $8)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		item.ID,
		item.ContentType,
		item.ContentRef,
		item.ContentExcerpt,
		item.ReportedBy,
		item.AISafetyScore,
		item.AIRecommend,
		item.Status,
	).Scan(&item.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to enqueue moderation item: %w", err)
	}
	return nil
}

// ListPending returns queued items awaiting review, oldest first
func (r *moderationRepository) ListPending(ctx context.Context, limit int) ([]domain.ModerationItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM moderation_items
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1`, moderationColumns)

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list moderation queue: %w", err)
	}
	defer rows.Close()

	var items []domain.ModerationItem
	for rows.Next() {
		item, err := scanModerationItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

// GetByID gets a queue item by id
func (r *moderationRepository) GetByID(ctx context.Context, id string) (*domain.ModerationItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM moderation_items WHERE id = $1`, moderationColumns)

	item, err := scanModerationItem(r.db.Pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, domain.ErrModerationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get moderation item: %w", err)
	}
	return item, nil
}

// Review records a moderator's decision on a queued item
func (r *moderationRepository) Review(ctx context.Context, id, reviewerID string, status domain.ModerationStatus) (*domain.ModerationItem, error) {
	query := fmt.Sprintf(`
		UPDATE moderation_items
		SET status = $1, reviewed_by = $2, reviewed_at = NOW()
		WHERE id = $3
		RETURNING %s`, moderationColumns)

	item, err := scanModerationItem(r.db.Pool.QueryRow(ctx, query, status, reviewerID, id))
	if err == pgx.ErrNoRows {
		return nil, domain.ErrModerationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to review moderation item: %w", err)
	}
	return item, nil
}

func scanModerationItem(row pgx.Row) (*domain.ModerationItem, error) {
	var item domain.ModerationItem
	var reviewedAt *time.Time
	err := row.Scan(
		&item.ID,
		&item.ContentType,
		&item.ContentRef,
		&item.ContentExcerpt,
		&item.ReportedBy,
		&item.AISafetyScore,
		&item.AIRecommend,
		&item.Status,
		&item.ReviewedBy,
		&reviewedAt,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.ReviewedAt = reviewedAt
	return &item, nil
}
