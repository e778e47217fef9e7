package service

import (
	"context"
	"encoding/json"
	"time"

	"vv-api/internal/domain"
	"vv-api/internal/hub"
	"vv-api/internal/repository"
	"vv-api/pkg/logger"
	"vv-api/pkg/redis"

	"github.com/google/uuid"
)

type battleService struct {
	battles    repository.BattleRepository
	chat       repository.ChatRepository
	cache      *redis.Client
	hub        *hub.Hub
	moderation ModerationService
	log        *logger.Logger
}

// NewBattleService creates the battle lifecycle service
func NewBattleService(
	battles repository.BattleRepository,
	chat repository.ChatRepository,
	cache *redis.Client,
	eventHub *hub.Hub,
	moderation ModerationService,
	log *logger.Logger,
) BattleService {
	return &battleService{
		battles:    battles,
		chat:       chat,
		cache:      cache,
		hub:        eventHub,
		moderation: moderation,
		log:        log.Named("battle"),
	}
}

// Create inserts a new waiting battle. The creator does not join
// automatically; joining is its own call.
func (s *battleService) Create(ctx context.Context, creator *domain.User, req *domain.CreateBattleRequest) (*domain.Battle, error) {
	battle := &domain.Battle{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Description:     req.Description,
		Format:          req.Format,
		TimeLimit:       req.TimeLimit,
		MaxParticipants: req.MaxParticipants,
		Status:          domain.StatusWaiting,
		CreatedBy:       creator.ID,
	}

	if err := s.battles.Create(ctx, battle); err != nil {
		return nil, err
	}

	s.invalidateLists(ctx)
	s.hub.Publish(domain.BattleEvent{Type: "created", BattleID: battle.ID, Battle: battle})
	s.log.WithField("battle_id", battle.ID).Info("battle created")
	return battle, nil
}

// Get returns the full battle document, cache-aside with a short TTL
func (s *battleService) Get(ctx context.Context, id string) (*domain.Battle, error) {
	key := s.cache.KeyBuilder.KeyBattleByID(id)
	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		var battle domain.Battle
		if err := json.Unmarshal([]byte(cached), &battle); err == nil {
			return &battle, nil
		}
	}

	battle, err := s.battles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(battle); err == nil {
		_ = s.cache.Set(ctx, key, data, redis.TTLBattle)
	}
	return battle, nil
}

// List returns battle summaries, cache-aside keyed by filter and limit
func (s *battleService) List(ctx context.Context, status domain.BattleStatus, limit int) ([]domain.BattleSummary, error) {
	key := s.cache.KeyBuilder.KeyBattleList(string(status), limit)
	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		var battles []domain.BattleSummary
		if err := json.Unmarshal([]byte(cached), &battles); err == nil {
			return battles, nil
		}
	}

	battles, err := s.battles.List(ctx, status, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(battles); err == nil {
		_ = s.cache.Set(ctx, key, data, redis.TTLBattleList)
	}
	return battles, nil
}

// Join adds the caller as a participant
func (s *battleService) Join(ctx context.Context, battleID string, user *domain.User) (*domain.Battle, error) {
	participant := domain.Participant{
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		PhotoURL:    user.AvatarURL,
	}

	battle, err := s.battles.Join(ctx, battleID, participant)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, battle, "joined")
	return battle, nil
}

// SubmitPerformance records the caller's entry and queues it for review
func (s *battleService) SubmitPerformance(ctx context.Context, battleID, userID, content string) (*domain.Battle, error) {
	battle, err := s.battles.SubmitPerformance(ctx, battleID, userID, content)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, battle, "performance")

	// Review happens off the request path
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.moderation.EnqueuePerformance(ctx, battleID, userID, content); err != nil {
			s.log.WithError(err).Warn("failed to enqueue performance for review")
		}
	}()

	return battle, nil
}

// CastVote records a spectator vote and marks the voter in Redis so
// clients can cheaply ask whether they already voted
func (s *battleService) CastVote(ctx context.Context, battleID, voterID, participantID string) (*domain.Battle, error) {
	battle, err := s.battles.CastVote(ctx, battleID, voterID, participantID)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, s.cache.KeyBuilder.KeyUserVoted(battleID, voterID), "1", redis.TTLUserVote)
	s.afterMutation(ctx, battle, "vote")
	return battle, nil
}

// Finalize completes the battle and records the winner
func (s *battleService) Finalize(ctx context.Context, battleID, callerID string) (*domain.Battle, error) {
	battle, err := s.battles.Finalize(ctx, battleID, callerID)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, battle, "finalized")
	s.log.WithField("battle_id", battleID).WithField("winner", battle.Winner).Info("battle finalized")
	return battle, nil
}

// PostChatMessage stores a chat message and pushes it to subscribers
func (s *battleService) PostChatMessage(ctx context.Context, battleID string, user *domain.User, message string) (*domain.ChatMessage, error) {
	// The battle must exist; chat is open in every phase
	if _, err := s.battles.GetByID(ctx, battleID); err != nil {
		return nil, err
	}

	msg := &domain.ChatMessage{
		ID:       uuid.NewString(),
		BattleID: battleID,
		UserID:   user.ID,
		Username: user.Username,
		Message:  message,
	}
	if err := s.chat.Insert(ctx, msg); err != nil {
		return nil, err
	}

	s.hub.Publish(domain.BattleEvent{Type: "chat", BattleID: battleID})
	return msg, nil
}

// ListChat returns the latest messages for a battle
func (s *battleService) ListChat(ctx context.Context, battleID string, limit int) ([]domain.ChatMessage, error) {
	return s.chat.ListRecent(ctx, battleID, limit)
}

// afterMutation invalidates caches and notifies subscribers after a
// successful battle mutation
func (s *battleService) afterMutation(ctx context.Context, battle *domain.Battle, eventType string) {
	_ = s.cache.Delete(ctx, s.cache.KeyBuilder.KeyBattleByID(battle.ID))
	s.invalidateLists(ctx)
	s.hub.Publish(domain.BattleEvent{Type: eventType, BattleID: battle.ID, Battle: battle})
}

func (s *battleService) invalidateLists(ctx context.Context) {
	pattern := s.cache.KeyBuilder.KeyCustom("battles:list:*")
	if err := s.cache.InvalidatePattern(ctx, pattern); err != nil {
		s.log.WithError(err).Debug("failed to invalidate battle list cache")
	}
}
