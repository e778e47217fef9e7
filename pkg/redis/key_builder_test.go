package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKeyBuilder(t *testing.T) {
	tests := []struct {
		environment string
		wantPrefix  string
	}{
		{"production", "prod"},
		{"development", "staging"},
		{"staging", "staging"},
		{"", "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			assert.Equal(t, tt.wantPrefix, kb.GetPrefix())
		})
	}
}

func TestKeyBuilderKeys(t *testing.T) {
	kb := NewKeyBuilder("production")

	assert.Equal(t, "prod:battles:battle:b1", kb.KeyBattleByID("b1"))
	assert.Equal(t, "prod:battles:list:waiting:20", kb.KeyBattleList("waiting", 20))
	assert.Equal(t, "prod:battles:list:all:20", kb.KeyBattleList("", 20))
	assert.Equal(t, "prod:battles:b1:voter:u1", kb.KeyUserVoted("b1", "u1"))
	assert.Equal(t, "prod:media:feed:u1", kb.KeyMediaFeed("u1"))
	assert.Equal(t, "prod:media:feed:anon", kb.KeyMediaFeed(""))
	assert.Equal(t, "prod:media:m1:views", kb.KeyMediaViews("m1"))
	assert.Equal(t, "prod:media:m1:likes", kb.KeyMediaLikes("m1"))
	assert.Equal(t, "prod:ratelimit:api:abcd", kb.KeyRateLimit("api", "abcd"))
}
