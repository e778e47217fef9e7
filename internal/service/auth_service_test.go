package service

import (
	"context"
	"testing"

	"vv-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryUserRepo is an in-memory UserRepository for service tests
type memoryUserRepo struct {
	byID map[string]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byID: make(map[string]*domain.User)}
}

func (m *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range m.byID {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}
	clone := *user
	m.byID[user.ID] = &clone
	return nil
}

func (m *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := m.byID[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memoryUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range m.byID {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memoryUserRepo) UpdateProfile(_ context.Context, id string, req *domain.UpdateProfileRequest) (*domain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if req.DisplayName != nil {
		u.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	clone := *u
	return &clone, nil
}

func setupAuthService(t *testing.T) (AuthService, *memoryUserRepo) {
	t.Helper()
	repo := newMemoryUserRepo()
	return NewAuthService(repo, "test-secret", testLogger(t)), repo
}

func signUpRequest() *domain.SignUpRequest {
	return &domain.SignUpRequest{
		Email:           "mc@example.com",
		Password:        "secret-pass",
		ConfirmPassword: "secret-pass",
		Username:        "mc_flow",
		DisplayName:     "MC Flow",
	}
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	auth, err := svc.SignUp(ctx, signUpRequest())
	require.NoError(t, err)
	require.NotNil(t, auth.User)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, "mc_flow", auth.User.Username)

	// The issued token verifies and names the new user
	claims, err := svc.VerifyToken(auth.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, claims.Sub)
	assert.Equal(t, "mc_flow", claims.Username)

	// Same credentials sign in
	signedIn, err := svc.SignIn(ctx, &domain.SignInRequest{
		Email:    "mc@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, signedIn.User.ID)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, signUpRequest())
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, &domain.SignInRequest{
		Email:    "mc@example.com",
		Password: "wrong-pass",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = svc.SignIn(ctx, &domain.SignInRequest{
		Email:    "nobody@example.com",
		Password: "secret-pass",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSignUpDuplicates(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, signUpRequest())
	require.NoError(t, err)

	dup := signUpRequest()
	dup.Username = "other_name"
	_, err = svc.SignUp(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	dup = signUpRequest()
	dup.Email = "other@example.com"
	_, err = svc.SignUp(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestPasswordHashNeverStoredPlain(t *testing.T) {
	svc, repo := setupAuthService(t)

	auth, err := svc.SignUp(context.Background(), signUpRequest())
	require.NoError(t, err)

	stored := repo.byID[auth.User.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret-pass", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	svc, _ := setupAuthService(t)

	auth, err := svc.SignUp(context.Background(), signUpRequest())
	require.NoError(t, err)

	_, err = svc.VerifyToken(auth.Token + "x")
	assert.Error(t, err)

	_, err = svc.VerifyToken("not-a-token")
	assert.Error(t, err)

	// A token signed with a different secret is rejected
	other := NewAuthService(newMemoryUserRepo(), "other-secret", testLogger(t))
	otherAuth, err := other.SignUp(context.Background(), signUpRequest())
	require.NoError(t, err)

	_, err = svc.VerifyToken(otherAuth.Token)
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	auth, err := svc.SignUp(ctx, signUpRequest())
	require.NoError(t, err)

	name := "The Real MC Flow"
	updated, err := svc.UpdateProfile(ctx, auth.User.ID, &domain.UpdateProfileRequest{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.DisplayName)
}
