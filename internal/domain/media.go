package domain

import "time"

// MediaType is the kind of uploaded media
type MediaType string

const (
	MediaTypeVideo MediaType = "video"
	MediaTypeAudio MediaType = "audio"
)

// MediaPrivacy controls who can read a media item
type MediaPrivacy string

const (
	PrivacyPublic   MediaPrivacy = "public"
	PrivacyPrivate  MediaPrivacy = "private"
	PrivacyUnlisted MediaPrivacy = "unlisted"
)

// MediaStatus is the moderation state of a media item
type MediaStatus string

const (
	MediaStatusPending  MediaStatus = "pending"
	MediaStatusApproved MediaStatus = "approved"
	MediaStatusRejected MediaStatus = "rejected"
)

// MediaCategories lists the accepted upload categories
var MediaCategories = []string{"freestyle", "battle", "cypher", "beat", "interview"}

// MediaItem represents one uploaded video or audio entry
type MediaItem struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Type        MediaType    `json:"type"`
	Category    string       `json:"category"`
	URL         string       `json:"url"`
	Tags        []string     `json:"tags,omitempty"`
	Privacy     MediaPrivacy `json:"privacy"`
	Views       int64        `json:"views"`
	Likes       int64        `json:"likes"`
	Status      MediaStatus  `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

// VisibleTo reports whether viewerID may read this item. Public and
// unlisted items are readable by anyone who can reference them;
// private items only by their owner.
func (m *MediaItem) VisibleTo(viewerID string) bool {
	switch m.Privacy {
	case PrivacyPublic, PrivacyUnlisted:
		return true
	case PrivacyPrivate:
		return viewerID != "" && viewerID == m.UserID
	default:
		return false
	}
}

// MediaUploadRequest is the payload recorded when an upload completes
type MediaUploadRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        MediaType    `json:"type"`
	Category    string       `json:"category"`
	URL         string       `json:"url"`
	Tags        []string     `json:"tags"`
	Privacy     MediaPrivacy `json:"privacy"`
}
