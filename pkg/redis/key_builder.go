package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// Battle key builders

func (kb *KeyBuilder) KeyBattleByID(battleID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyBattleByID, battleID))
}

func (kb *KeyBuilder) KeyBattleList(statusFilter string, limit int) string {
	if statusFilter == "" {
		statusFilter = "all"
	}
	return kb.BuildKey(fmt.Sprintf(KeyBattleList, statusFilter, limit))
}

func (kb *KeyBuilder) KeyUserVoted(battleID, userID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyUserVoted, battleID, userID))
}

// Media key builders

func (kb *KeyBuilder) KeyMediaFeed(viewerID string) string {
	if viewerID == "" {
		viewerID = "anon"
	}
	return kb.BuildKey(fmt.Sprintf(KeyMediaFeed, viewerID))
}

func (kb *KeyBuilder) KeyMediaViews(mediaID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyMediaViews, mediaID))
}

func (kb *KeyBuilder) KeyMediaLikes(mediaID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyMediaLikes, mediaID))
}

// Rate limit key builders

func (kb *KeyBuilder) KeyRateLimit(class, ipHash string) string {
	return kb.BuildKey(fmt.Sprintf(KeyRateLimit, class, ipHash))
}

// KeyCustom builds a key from a custom pattern
func (kb *KeyBuilder) KeyCustom(pattern string, args ...interface{}) string {
	key := fmt.Sprintf(pattern, args...)
	return kb.BuildKey(key)
}
