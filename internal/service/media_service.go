package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"vv-api/internal/domain"
	"vv-api/internal/repository"
	"vv-api/pkg/logger"
	"vv-api/pkg/redis"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// dirtyMediaKey is the Redis set of media ids with unflushed counters
const dirtyMediaKey = "media:dirty"

type mediaService struct {
	media      repository.MediaRepository
	cache      *redis.Client
	moderation ModerationService
	log        *logger.Logger
}

// NewMediaService creates the media library service
func NewMediaService(
	media repository.MediaRepository,
	cache *redis.Client,
	moderation ModerationService,
	log *logger.Logger,
) MediaService {
	return &mediaService{
		media:      media,
		cache:      cache,
		moderation: moderation,
		log:        log.Named("media"),
	}
}

// Upload records a completed upload pending review
func (s *mediaService) Upload(ctx context.Context, userID string, req *domain.MediaUploadRequest) (*domain.MediaItem, error) {
	item := &domain.MediaItem{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Category:    req.Category,
		URL:         req.URL,
		Tags:        req.Tags,
		Privacy:     req.Privacy,
		Status:      domain.MediaStatusPending,
	}

	if err := s.media.Create(ctx, item); err != nil {
		return nil, err
	}

	s.invalidateFeeds(ctx)
	s.log.WithField("media_id", item.ID).Info("media uploaded")

	// Review happens off the request path
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.moderation.EnqueueMedia(ctx, item); err != nil {
			s.log.WithError(err).Warn("failed to enqueue media for review")
		}
	}()

	return item, nil
}

// Get returns a media item after checking the viewer may read it
func (s *mediaService) Get(ctx context.Context, id, viewerID string) (*domain.MediaItem, error) {
	item, err := s.media.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.VisibleTo(viewerID) {
		return nil, domain.ErrMediaNotVisible
	}
	return item, nil
}

// Feed returns the feed as seen by viewerID, cache-aside per viewer
func (s *mediaService) Feed(ctx context.Context, viewerID string, limit int) ([]domain.MediaItem, error) {
	key := s.cache.KeyBuilder.KeyMediaFeed(viewerID)
	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		var items []domain.MediaItem
		if err := json.Unmarshal([]byte(cached), &items); err == nil {
			return items, nil
		}
	}

	items, err := s.media.ListVisible(ctx, viewerID, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		_ = s.cache.Set(ctx, key, data, redis.TTLMediaFeed)
	}
	return items, nil
}

// RecordView bumps the buffered view counter for a media item
func (s *mediaService) RecordView(ctx context.Context, id, viewerID string) error {
	return s.recordEngagement(ctx, id, viewerID, s.cache.KeyBuilder.KeyMediaViews(id))
}

// RecordLike bumps the buffered like counter for a media item
func (s *mediaService) RecordLike(ctx context.Context, id, viewerID string) error {
	return s.recordEngagement(ctx, id, viewerID, s.cache.KeyBuilder.KeyMediaLikes(id))
}

func (s *mediaService) recordEngagement(ctx context.Context, id, viewerID, counterKey string) error {
	item, err := s.media.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !item.VisibleTo(viewerID) {
		return domain.ErrMediaNotVisible
	}

	pipe := s.cache.Pipeline()
	pipe.Incr(ctx, counterKey)
	pipe.SAdd(ctx, s.cache.KeyBuilder.KeyCustom(dirtyMediaKey), id)
	if _, err := pipe.Exec(ctx); err != nil {
		// Counters are best-effort; the read itself already succeeded
		s.log.WithError(err).Warn("failed to record engagement")
	}
	return nil
}

// FlushEngagement folds the buffered Redis counters into Postgres.
// Runs periodically from main; safe to call concurrently with traffic
// since GETDEL hands each counter to exactly one flusher.
func (s *mediaService) FlushEngagement(ctx context.Context) error {
	dirtyKey := s.cache.KeyBuilder.KeyCustom(dirtyMediaKey)

	pipe := s.cache.Pipeline()
	membersCmd := pipe.SMembers(ctx, dirtyKey)
	pipe.Del(ctx, dirtyKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	for _, id := range membersCmd.Val() {
		pipe := s.cache.Pipeline()
		viewsCmd := pipe.GetDel(ctx, s.cache.KeyBuilder.KeyMediaViews(id))
		likesCmd := pipe.GetDel(ctx, s.cache.KeyBuilder.KeyMediaLikes(id))
		if _, err := pipe.Exec(ctx); err != nil && !isRedisNil(err) {
			s.log.WithError(err).WithField("media_id", id).Warn("failed to collect counters")
			continue
		}

		views, _ := strconv.ParseInt(viewsCmd.Val(), 10, 64)
		likes, _ := strconv.ParseInt(likesCmd.Val(), 10, 64)
		if views == 0 && likes == 0 {
			continue
		}

		if err := s.media.AddEngagement(ctx, id, views, likes); err != nil {
			s.log.WithError(err).WithField("media_id", id).Warn("failed to flush engagement")
		}
	}
	return nil
}

func isRedisNil(err error) bool {
	return errors.Is(err, goredis.Nil)
}

func (s *mediaService) invalidateFeeds(ctx context.Context) {
	pattern := s.cache.KeyBuilder.KeyCustom("media:feed:*")
	if err := s.cache.InvalidatePattern(ctx, pattern); err != nil {
		s.log.WithError(err).Debug("failed to invalidate media feed cache")
	}
}
