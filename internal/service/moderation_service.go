package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"vv-api/internal/domain"
	"vv-api/internal/repository"
	"vv-api/pkg/errors"
	"vv-api/pkg/logger"

	"github.com/google/uuid"
)

// excerptMax bounds the stored content excerpt
const excerptMax = 280

type moderationService struct {
	queue repository.ModerationRepository
	media repository.MediaRepository
	judge JudgeService
	log   *logger.Logger
}

// NewModerationService creates the review queue service. The judge may
// be nil when no AI key is configured; items are then queued without
// an AI annotation.
func NewModerationService(
	queue repository.ModerationRepository,
	media repository.MediaRepository,
	judge JudgeService,
	log *logger.Logger,
) ModerationService {
	return &moderationService{
		queue: queue,
		media: media,
		judge: judge,
		log:   log.Named("moderation"),
	}
}

// EnqueueMedia queues an uploaded media item for review
func (s *moderationService) EnqueueMedia(ctx context.Context, item *domain.MediaItem) error {
	return s.enqueue(ctx, domain.ContentTypeMedia, item.ID, item.Title+"\n"+item.Description)
}

// EnqueuePerformance queues a submitted battle performance for review
func (s *moderationService) EnqueuePerformance(ctx context.Context, battleID, userID, content string) error {
	return s.enqueue(ctx, domain.ContentTypePerformance, battleID+":"+userID, content)
}

func (s *moderationService) enqueue(ctx context.Context, contentType domain.ModerationContentType, ref, content string) error {
	item := &domain.ModerationItem{
		ID:             uuid.NewString(),
		ContentType:    contentType,
		ContentRef:     ref,
		ContentExcerpt: excerpt(content),
		Status:         domain.ModerationPending,
	}

	// Annotation is best-effort; a queue entry without it still gets
	// human review
	if s.judge != nil {
		if result, err := s.judge.ModerateContent(ctx, content); err != nil {
			s.log.WithError(err).Debug("ai moderation annotation failed")
		} else {
			item.AIRecommend = result.Content
		}
	}

	return s.queue.Enqueue(ctx, item)
}

// Queue returns pending review items
func (s *moderationService) Queue(ctx context.Context, limit int) ([]domain.ModerationItem, error) {
	return s.queue.ListPending(ctx, limit)
}

// Review applies a moderator decision. Approving or rejecting a media
// item advances the media row's status as well.
func (s *moderationService) Review(ctx context.Context, id, reviewerID, action string) (*domain.ModerationItem, error) {
	var status domain.ModerationStatus
	switch action {
	case "approve":
		status = domain.ModerationApproved
	case "reject":
		status = domain.ModerationRejected
	case "flag":
		status = domain.ModerationFlagged
	default:
		return nil, errors.NewFieldValidationError("action", "Action must be one of approve, reject, flag")
	}

	item, err := s.queue.Review(ctx, id, reviewerID, status)
	if err != nil {
		return nil, err
	}

	if item.ContentType == domain.ContentTypeMedia && status != domain.ModerationFlagged {
		mediaStatus := domain.MediaStatusApproved
		if status == domain.ModerationRejected {
			mediaStatus = domain.MediaStatusRejected
		}
		if err := s.media.UpdateStatus(ctx, item.ContentRef, mediaStatus); err != nil {
			return nil, fmt.Errorf("failed to advance media status: %w", err)
		}
	}

	s.log.WithField("item_id", id).WithField("action", action).Info("moderation decision recorded")
	return item, nil
}

func excerpt(content string) string {
	if utf8.RuneCountInString(content) <= excerptMax {
		return content
	}
	runes := []rune(content)
	return string(runes[:excerptMax])
}
