package repository

import (
	"context"

	"vv-api/internal/domain"
)

// UserRepository handles user persistence
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, req *domain.UpdateProfileRequest) (*domain.User, error)
}

// BattleRepository handles battle persistence. The mutation methods run
// inside a transaction with the battle row locked, so the lifecycle
// invariants hold under concurrent callers.
type BattleRepository interface {
	Create(ctx context.Context, battle *domain.Battle) error
	GetByID(ctx context.Context, id string) (*domain.Battle, error)
	List(ctx context.Context, status domain.BattleStatus, limit int) ([]domain.BattleSummary, error)
	Join(ctx context.Context, battleID string, participant domain.Participant) (*domain.Battle, error)
	SubmitPerformance(ctx context.Context, battleID, userID, content string) (*domain.Battle, error)
	CastVote(ctx context.Context, battleID, voterID, participantID string) (*domain.Battle, error)
	Finalize(ctx context.Context, battleID, callerID string) (*domain.Battle, error)
}

// MediaRepository handles media persistence
type MediaRepository interface {
	Create(ctx context.Context, item *domain.MediaItem) error
	GetByID(ctx context.Context, id string) (*domain.MediaItem, error)
	ListVisible(ctx context.Context, viewerID string, limit int) ([]domain.MediaItem, error)
	AddEngagement(ctx context.Context, id string, views, likes int64) error
	UpdateStatus(ctx context.Context, id string, status domain.MediaStatus) error
}

// ModerationRepository handles the persisted moderation queue
type ModerationRepository interface {
	Enqueue(ctx context.Context, item *domain.ModerationItem) error
	ListPending(ctx context.Context, limit int) ([]domain.ModerationItem, error)
	GetByID(ctx context.Context, id string) (*domain.ModerationItem, error)
	Review(ctx context.Context, id, reviewerID string, status domain.ModerationStatus) (*domain.ModerationItem, error)
}

// ChatRepository handles battle chat persistence
type ChatRepository interface {
	Insert(ctx context.Context, msg *domain.ChatMessage) error
	ListRecent(ctx context.Context, battleID string, limit int) ([]domain.ChatMessage, error)
}
