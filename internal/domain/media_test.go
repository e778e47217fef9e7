package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMediaItemVisibleTo(t *testing.T) {
	tests := []struct {
		name     string
		privacy  MediaPrivacy
		viewerID string
		visible  bool
	}{
		{"public visible to anyone", PrivacyPublic, "stranger", true},
		{"public visible to anonymous", PrivacyPublic, "", true},
		{"unlisted visible with direct reference", PrivacyUnlisted, "stranger", true},
		{"unlisted visible to anonymous", PrivacyUnlisted, "", true},
		{"private visible to owner", PrivacyPrivate, "owner", true},
		{"private hidden from others", PrivacyPrivate, "stranger", false},
		{"private hidden from anonymous", PrivacyPrivate, "", false},
		{"unknown privacy hidden", MediaPrivacy("bogus"), "owner", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &MediaItem{
				ID:      "media-1",
				UserID:  "owner",
				Privacy: tt.privacy,
			}
			assert.Equal(t, tt.visible, item.VisibleTo(tt.viewerID))
		})
	}
}
