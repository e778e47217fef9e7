package domain

import "time"

// ModerationStatus is the review state of a queued content item
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
	ModerationFlagged  ModerationStatus = "flagged"
)

// ModerationContentType identifies what kind of content was queued
type ModerationContentType string

const (
	ContentTypeMedia       ModerationContentType = "media"
	ContentTypePerformance ModerationContentType = "battle_performance"
	ContentTypeChat        ModerationContentType = "chat"
)

// ModerationItem is one entry in the persisted moderation queue
type ModerationItem struct {
	ID             string                `json:"id"`
	ContentType    ModerationContentType `json:"content_type"`
	ContentRef     string                `json:"content_ref"` // id of the referenced media/battle/chat row
	ContentExcerpt string                `json:"content_excerpt"`
	ReportedBy     string                `json:"reported_by,omitempty"`
	AISafetyScore  *float64              `json:"ai_safety_score,omitempty"`
	AIRecommend    string                `json:"ai_recommendation,omitempty"`
	Status         ModerationStatus      `json:"status"`
	ReviewedBy     string                `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time            `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// ReviewRequest is the payload for a moderation decision
type ReviewRequest struct {
	Action string `json:"action"` // approve | reject | flag
}
