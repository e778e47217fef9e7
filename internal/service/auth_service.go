package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vv-api/internal/domain"
	"vv-api/internal/repository"
	"vv-api/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SessionDuration is how long an issued token stays valid
const SessionDuration = 7 * 24 * time.Hour

type authService struct {
	users  repository.UserRepository
	secret []byte
	log    *logger.Logger
}

// NewAuthService creates the account and session service
func NewAuthService(users repository.UserRepository, jwtSecret string, log *logger.Logger) AuthService {
	return &authService{
		users:  users,
		secret: []byte(jwtSecret),
		log:    log.Named("auth"),
	}
}

// SignUp creates an account and signs the caller in
func (s *authService) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Info("user signed up")
	return s.issueSession(user)
}

// SignIn verifies credentials and issues a session token. Lookup misses
// and password mismatches both surface as ErrUserNotFound so the
// handler can answer with one generic credentials message.
func (s *authService) SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrUserNotFound
	}

	s.log.WithField("user_id", user.ID).Info("user signed in")
	return s.issueSession(user)
}

func (s *authService) issueSession(user *domain.User) (*domain.AuthResponse, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(SessionDuration)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &domain.AuthResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      user.Public(),
	}, nil
}

// VerifyToken validates a session token and returns its claims
func (s *authService) VerifyToken(tokenString string) (*domain.AuthClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	if sub == "" {
		return nil, fmt.Errorf("token missing subject")
	}

	out := &domain.AuthClaims{Sub: sub, Username: username}
	if iat, ok := claims["iat"].(float64); ok {
		out.Iat = int64(iat)
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.Exp = int64(exp)
	}
	return out, nil
}

// GetUser loads the full account record for the session owner
func (s *authService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetProfile returns the public profile for a username
func (s *authService) GetProfile(ctx context.Context, username string) (*domain.PublicProfile, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// UpdateProfile applies an owner-initiated profile edit
func (s *authService) UpdateProfile(ctx context.Context, id string, req *domain.UpdateProfileRequest) (*domain.User, error) {
	return s.users.UpdateProfile(ctx, id, req)
}
