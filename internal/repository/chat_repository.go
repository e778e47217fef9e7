package repository

import (
	"context"
	"fmt"

	"vv-api/internal/domain"
	"vv-api/pkg/database"
)

type chatRepository struct {
	db *database.PostgresDB
}

// NewChatRepository creates a Postgres-backed chat repository
func NewChatRepository(db *database.PostgresDB) ChatRepository {
	return &chatRepository{db: db}
}

// Insert stores one chat message
func (r *chatRepository) Insert(ctx context.Context, msg *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, battle_id, user_id, username, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		msg.ID, msg.BattleID, msg.UserID, msg.Username, msg.Message,
	).Scan(&msg.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert chat message: %w", err)
	}
	return nil
}

// ListRecent returns the latest messages for a battle in chronological order
func (r *chatRepository) ListRecent(ctx context.Context, battleID string, limit int) ([]domain.ChatMessage, error) {
	query := `
		SELECT id, battle_id, user_id, username, message, created_at
		FROM (
			SELECT id, battle_id, user_id, username, message, created_at
			FROM chat_messages
			WHERE battle_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, battleID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.BattleID, &m.UserID, &m.Username, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
