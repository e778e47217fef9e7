package domain

import "time"

// User represents a registered account
type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	Username     string      `json:"username"`
	DisplayName  string      `json:"display_name"`
	PasswordHash string      `json:"-"`
	Bio          string      `json:"bio,omitempty"`
	AvatarURL    string      `json:"avatar_url,omitempty"`
	SocialLinks  SocialLinks `json:"social_links"`
	Stats        BattleStats `json:"stats"`
	Verified     bool        `json:"verified"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// SocialLinks holds a user's external profile links
type SocialLinks struct {
	Instagram  string `json:"instagram,omitempty"`
	Twitter    string `json:"twitter,omitempty"`
	YouTube    string `json:"youtube,omitempty"`
	SoundCloud string `json:"soundcloud,omitempty"`
}

// BattleStats aggregates a user's battle record
type BattleStats struct {
	Wins         int `json:"wins"`
	Losses       int `json:"losses"`
	TotalBattles int `json:"total_battles"`
}

// PublicProfile is the subset of a user visible to other callers
type PublicProfile struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	DisplayName string      `json:"display_name"`
	Bio         string      `json:"bio,omitempty"`
	AvatarURL   string      `json:"avatar_url,omitempty"`
	SocialLinks SocialLinks `json:"social_links"`
	Stats       BattleStats `json:"stats"`
	Verified    bool        `json:"verified"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Public strips private fields from a user
func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		AvatarURL:   u.AvatarURL,
		SocialLinks: u.SocialLinks,
		Stats:       u.Stats,
		Verified:    u.Verified,
		CreatedAt:   u.CreatedAt,
	}
}

// SignUpRequest is the payload for account creation
type SignUpRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Username        string `json:"username"`
	DisplayName     string `json:"display_name"`
}

// SignInRequest is the payload for signing in
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued session token and the signed-in user
type AuthResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *PublicProfile `json:"user"`
}

// UpdateProfileRequest is the payload for owner-initiated profile edits
type UpdateProfileRequest struct {
	DisplayName *string      `json:"display_name,omitempty"`
	Bio         *string      `json:"bio,omitempty"`
	AvatarURL   *string      `json:"avatar_url,omitempty"`
	SocialLinks *SocialLinks `json:"social_links,omitempty"`
}

// AuthClaims are the JWT claims carried by a session token
type AuthClaims struct {
	Sub      string `json:"sub"`
	Username string `json:"username"`
	Iat      int64  `json:"iat"`
	Exp      int64  `json:"exp"`
}
