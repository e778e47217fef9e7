package service

import (
	"context"

	"vv-api/internal/domain"
)

// AuthService handles accounts and session tokens
type AuthService interface {
	SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.AuthResponse, error)
	SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.AuthResponse, error)
	VerifyToken(token string) (*domain.AuthClaims, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetProfile(ctx context.Context, username string) (*domain.PublicProfile, error)
	UpdateProfile(ctx context.Context, id string, req *domain.UpdateProfileRequest) (*domain.User, error)
}

// BattleService drives the battle lifecycle and its chat stream
type BattleService interface {
	Create(ctx context.Context, creator *domain.User, req *domain.CreateBattleRequest) (*domain.Battle, error)
	Get(ctx context.Context, id string) (*domain.Battle, error)
	List(ctx context.Context, status domain.BattleStatus, limit int) ([]domain.BattleSummary, error)
	Join(ctx context.Context, battleID string, user *domain.User) (*domain.Battle, error)
	SubmitPerformance(ctx context.Context, battleID, userID, content string) (*domain.Battle, error)
	CastVote(ctx context.Context, battleID, voterID, participantID string) (*domain.Battle, error)
	Finalize(ctx context.Context, battleID, callerID string) (*domain.Battle, error)
	PostChatMessage(ctx context.Context, battleID string, user *domain.User, message string) (*domain.ChatMessage, error)
	ListChat(ctx context.Context, battleID string, limit int) ([]domain.ChatMessage, error)
}

// MediaService handles the media library and its engagement counters
type MediaService interface {
	Upload(ctx context.Context, userID string, req *domain.MediaUploadRequest) (*domain.MediaItem, error)
	Get(ctx context.Context, id, viewerID string) (*domain.MediaItem, error)
	Feed(ctx context.Context, viewerID string, limit int) ([]domain.MediaItem, error)
	RecordView(ctx context.Context, id, viewerID string) error
	RecordLike(ctx context.Context, id, viewerID string) error
	FlushEngagement(ctx context.Context) error
}

// ModerationService manages the persisted review queue
type ModerationService interface {
	EnqueueMedia(ctx context.Context, item *domain.MediaItem) error
	EnqueuePerformance(ctx context.Context, battleID, userID, content string) error
	Queue(ctx context.Context, limit int) ([]domain.ModerationItem, error)
	Review(ctx context.Context, id, reviewerID, action string) (*domain.ModerationItem, error)
}

// JudgeService wraps the Gemini analysis endpoints. Each call returns
// the raw model text; callers are responsible for parsing it.
type JudgeService interface {
	JudgeBattle(ctx context.Context, req *domain.JudgeRequest) (*domain.AnalysisResult, error)
	AnalyzePerformance(ctx context.Context, req *domain.AnalyzeRequest) (*domain.AnalysisResult, error)
	AnalyzeCypher(ctx context.Context, req *domain.CypherRequest) (*domain.AnalysisResult, error)
	SuggestBeats(ctx context.Context, req *domain.BeatRequest) (*domain.AnalysisResult, error)
	ModerateContent(ctx context.Context, content string) (*domain.AnalysisResult, error)
}
