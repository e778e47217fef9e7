package validation

import (
	"strings"
	"testing"

	"vv-api/internal/domain"
	"vv-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failedField extracts the field name from a validation error
func failedField(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok, "expected an AppError, got %T", err)
	require.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	field, _ := appErr.Details["field"].(string)
	return field
}

func validSignUp() *domain.SignUpRequest {
	return &domain.SignUpRequest{
		Email:           "mc@example.com",
		Password:        "secret-pass",
		ConfirmPassword: "secret-pass",
		Username:        "mc_flow",
		DisplayName:     "MC Flow",
	}
}

func TestSignUp(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.SignUpRequest)
		wantField string
	}{
		{"valid", func(r *domain.SignUpRequest) {}, ""},
		{"bad email", func(r *domain.SignUpRequest) { r.Email = "not-an-email" }, "email"},
		{"short password", func(r *domain.SignUpRequest) { r.Password, r.ConfirmPassword = "short", "short" }, "password"},
		{"password mismatch", func(r *domain.SignUpRequest) { r.ConfirmPassword = "different-pass" }, "confirm_password"},
		{"username too short", func(r *domain.SignUpRequest) { r.Username = "ab" }, "username"},
		{"username too long", func(r *domain.SignUpRequest) { r.Username = strings.Repeat("a", 31) }, "username"},
		{"username bad characters", func(r *domain.SignUpRequest) { r.Username = "mc flow!" }, "username"},
		{"empty display name", func(r *domain.SignUpRequest) { r.DisplayName = "" }, "display_name"},
		{"display name too long", func(r *domain.SignUpRequest) { r.DisplayName = strings.Repeat("x", 51) }, "display_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignUp()
			tt.mutate(req)

			err := SignUp(req)
			if tt.wantField == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantField, failedField(t, err))
			}
		})
	}
}

func TestSignIn(t *testing.T) {
	assert.NoError(t, SignIn(&domain.SignInRequest{Email: "a@b.co", Password: "x"}))

	err := SignIn(&domain.SignInRequest{Email: "nope", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, "email", failedField(t, err))

	err = SignIn(&domain.SignInRequest{Email: "a@b.co"})
	require.Error(t, err)
	assert.Equal(t, "password", failedField(t, err))
}

func validBattleCreate() *domain.CreateBattleRequest {
	return &domain.CreateBattleRequest{
		Title:           "Friday Night Battle",
		Description:     "Two rounds, no holds barred",
		Format:          domain.FormatFreestyle,
		TimeLimit:       120,
		MaxParticipants: 2,
	}
}

func TestBattleCreate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.CreateBattleRequest)
		wantField string
	}{
		{"valid", func(r *domain.CreateBattleRequest) {}, ""},
		{"title too short", func(r *domain.CreateBattleRequest) { r.Title = "hey" }, "title"},
		{"title too long", func(r *domain.CreateBattleRequest) { r.Title = strings.Repeat("x", 101) }, "title"},
		{"description too long", func(r *domain.CreateBattleRequest) { r.Description = strings.Repeat("x", 501) }, "description"},
		{"unknown format", func(r *domain.CreateBattleRequest) { r.Format = "karaoke" }, "format"},
		{"time limit too low", func(r *domain.CreateBattleRequest) { r.TimeLimit = 29 }, "time_limit"},
		{"time limit too high", func(r *domain.CreateBattleRequest) { r.TimeLimit = 601 }, "time_limit"},
		{"too few participants", func(r *domain.CreateBattleRequest) { r.MaxParticipants = 1 }, "max_participants"},
		{"too many participants", func(r *domain.CreateBattleRequest) { r.MaxParticipants = 11 }, "max_participants"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBattleCreate()
			tt.mutate(req)

			err := BattleCreate(req)
			if tt.wantField == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantField, failedField(t, err))
			}
		})
	}
}

func validMediaUpload() *domain.MediaUploadRequest {
	return &domain.MediaUploadRequest{
		Title:    "Warehouse Freestyle",
		Type:     domain.MediaTypeVideo,
		Category: "freestyle",
		URL:      "https://cdn.example.com/clips/1.mp4",
		Tags:     []string{"underground", "freestyle"},
		Privacy:  domain.PrivacyPublic,
	}
}

func TestMediaUpload(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.MediaUploadRequest)
		wantField string
	}{
		{"valid", func(r *domain.MediaUploadRequest) {}, ""},
		{"empty title", func(r *domain.MediaUploadRequest) { r.Title = "  " }, "title"},
		{"bad type", func(r *domain.MediaUploadRequest) { r.Type = "gif" }, "type"},
		{"bad category", func(r *domain.MediaUploadRequest) { r.Category = "vlog" }, "category"},
		{"bad url", func(r *domain.MediaUploadRequest) { r.URL = "ftp://example.com/x" }, "url"},
		{"too many tags", func(r *domain.MediaUploadRequest) { r.Tags = make([]string, 11) }, "tags"},
		{"empty tag", func(r *domain.MediaUploadRequest) { r.Tags = []string{""} }, "tags"},
		{"bad privacy", func(r *domain.MediaUploadRequest) { r.Privacy = "secret" }, "privacy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validMediaUpload()
			tt.mutate(req)

			err := MediaUpload(req)
			if tt.wantField == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantField, failedField(t, err))
			}
		})
	}
}

func TestChatMessage(t *testing.T) {
	assert.NoError(t, ChatMessage(&domain.ChatMessageRequest{Message: "let's go"}))

	err := ChatMessage(&domain.ChatMessageRequest{Message: "   "})
	require.Error(t, err)
	assert.Equal(t, "message", failedField(t, err))

	err = ChatMessage(&domain.ChatMessageRequest{Message: strings.Repeat("x", 501)})
	require.Error(t, err)
	assert.Equal(t, "message", failedField(t, err))
}

func TestProfileUpdate(t *testing.T) {
	name := "New Name"
	assert.NoError(t, ProfileUpdate(&domain.UpdateProfileRequest{DisplayName: &name}))

	empty := ""
	err := ProfileUpdate(&domain.UpdateProfileRequest{DisplayName: &empty})
	require.Error(t, err)
	assert.Equal(t, "display_name", failedField(t, err))

	longBio := strings.Repeat("x", 501)
	err = ProfileUpdate(&domain.UpdateProfileRequest{Bio: &longBio})
	require.Error(t, err)
	assert.Equal(t, "bio", failedField(t, err))
}
