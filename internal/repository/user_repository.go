package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"vv-api/internal/domain"
	"vv-api/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type userRepository struct {
	db *database.PostgresDB
}

// NewUserRepository creates a Postgres-backed user repository
func NewUserRepository(db *database.PostgresDB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `
	id, email, username, display_name, password_hash,
	COALESCE(bio, ''), COALESCE(avatar_url, ''), social_links,
	wins, losses, total_battles, verified, created_at, updated_at
`

// Create inserts a new user, mapping unique violations onto the
// email/username sentinel errors
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	links, err := json.Marshal(user.SocialLinks)
	if err != nil {
		return fmt.Errorf("failed to marshal social links: %w", err)
	}

	query := `
		INSERT INTO users (id, email, username, display_name, password_hash, bio, avatar_url, social_links)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err = r.db.Pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Username,
		user.DisplayName,
		user.PasswordHash,
		user.Bio,
		user.AvatarURL,
		links,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return domain.ErrEmailTaken
			}
			if strings.Contains(pgErr.ConstraintName, "username") {
				return domain.ErrUsernameTaken
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID gets a user by id
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email", email)
}

// GetByUsername gets a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *userRepository) getBy(ctx context.Context, column, value string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, column)

	var user domain.User
	var links []byte
	err := r.db.Pool.QueryRow(ctx, query, value).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.DisplayName,
		&user.PasswordHash,
		&user.Bio,
		&user.AvatarURL,
		&links,
		&user.Stats.Wins,
		&user.Stats.Losses,
		&user.Stats.TotalBattles,
		&user.Verified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if len(links) > 0 {
		_ = json.Unmarshal(links, &user.SocialLinks)
	}
	return &user, nil
}

// UpdateProfile applies an owner-initiated edit and returns the updated user
func (r *userRepository) UpdateProfile(ctx context.Context, id string, req *domain.UpdateProfileRequest) (*domain.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.SocialLinks != nil {
		user.SocialLinks = *req.SocialLinks
	}

	links, err := json.Marshal(user.SocialLinks)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal social links: %w", err)
	}

	query := `
		UPDATE users
		SET display_name = $1, bio = $2, avatar_url = $3, social_links = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	err = r.db.Pool.QueryRow(ctx, query,
		user.DisplayName, user.Bio, user.AvatarURL, links, id,
	).Scan(&user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}
