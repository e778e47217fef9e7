// Package validation holds the request schemas for the public API.
// Each validator returns a field-naming validation error so clients
// can point at the offending input.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"vv-api/internal/domain"
	"vv-api/pkg/errors"
)

var (
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// Schema ceilings shared with the migration DDL
const (
	UsernameMin        = 3
	UsernameMax        = 30
	DisplayNameMax     = 50
	PasswordMin        = 8
	BattleTitleMin     = 5
	BattleTitleMax     = 100
	DescriptionMax     = 500
	TimeLimitMin       = 30
	TimeLimitMax       = 600
	MaxParticipantsMin = 2
	MaxParticipantsMax = 10
	MediaTitleMax      = 100
	MaxTags            = 10
	TagMax             = 30
	ChatMessageMax     = 500
)

// SignIn validates a sign-in request
func SignIn(req *domain.SignInRequest) error {
	if !emailPattern.MatchString(req.Email) {
		return errors.NewFieldValidationError("email", "A valid email address is required")
	}
	if req.Password == "" {
		return errors.NewFieldValidationError("password", "Password is required")
	}
	return nil
}

// SignUp validates a sign-up request
func SignUp(req *domain.SignUpRequest) error {
	if !emailPattern.MatchString(req.Email) {
		return errors.NewFieldValidationError("email", "A valid email address is required")
	}
	if utf8.RuneCountInString(req.Password) < PasswordMin {
		return errors.NewFieldValidationError("password",
			fmt.Sprintf("Password must be at least %d characters", PasswordMin))
	}
	if req.Password != req.ConfirmPassword {
		return errors.NewFieldValidationError("confirm_password", "Passwords do not match")
	}
	if n := utf8.RuneCountInString(req.Username); n < UsernameMin || n > UsernameMax {
		return errors.NewFieldValidationError("username",
			fmt.Sprintf("Username must be %d-%d characters", UsernameMin, UsernameMax))
	}
	if !usernamePattern.MatchString(req.Username) {
		return errors.NewFieldValidationError("username",
			"Username may only contain letters, numbers and underscores")
	}
	if n := utf8.RuneCountInString(req.DisplayName); n == 0 || n > DisplayNameMax {
		return errors.NewFieldValidationError("display_name",
			fmt.Sprintf("Display name must be 1-%d characters", DisplayNameMax))
	}
	return nil
}

// BattleCreate validates a battle creation request
func BattleCreate(req *domain.CreateBattleRequest) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(req.Title)); n < BattleTitleMin || n > BattleTitleMax {
		return errors.NewFieldValidationError("title",
			fmt.Sprintf("Title must be %d-%d characters", BattleTitleMin, BattleTitleMax))
	}
	if utf8.RuneCountInString(req.Description) > DescriptionMax {
		return errors.NewFieldValidationError("description",
			fmt.Sprintf("Description must be at most %d characters", DescriptionMax))
	}
	switch req.Format {
	case domain.FormatFreestyle, domain.FormatWritten, domain.FormatCypher:
	default:
		return errors.NewFieldValidationError("format",
			"Format must be one of freestyle, written, cypher")
	}
	if req.TimeLimit < TimeLimitMin || req.TimeLimit > TimeLimitMax {
		return errors.NewFieldValidationError("time_limit",
			fmt.Sprintf("Time limit must be %d-%d seconds", TimeLimitMin, TimeLimitMax))
	}
	if req.MaxParticipants < MaxParticipantsMin || req.MaxParticipants > MaxParticipantsMax {
		return errors.NewFieldValidationError("max_participants",
			fmt.Sprintf("Max participants must be %d-%d", MaxParticipantsMin, MaxParticipantsMax))
	}
	return nil
}

// MediaUpload validates a media upload request
func MediaUpload(req *domain.MediaUploadRequest) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(req.Title)); n == 0 || n > MediaTitleMax {
		return errors.NewFieldValidationError("title",
			fmt.Sprintf("Title must be 1-%d characters", MediaTitleMax))
	}
	if utf8.RuneCountInString(req.Description) > DescriptionMax {
		return errors.NewFieldValidationError("description",
			fmt.Sprintf("Description must be at most %d characters", DescriptionMax))
	}
	switch req.Type {
	case domain.MediaTypeVideo, domain.MediaTypeAudio:
	default:
		return errors.NewFieldValidationError("type", "Type must be video or audio")
	}
	if !validCategory(req.Category) {
		return errors.NewFieldValidationError("category",
			"Category must be one of "+strings.Join(domain.MediaCategories, ", "))
	}
	if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
		return errors.NewFieldValidationError("url", "A valid media URL is required")
	}
	if len(req.Tags) > MaxTags {
		return errors.NewFieldValidationError("tags",
			fmt.Sprintf("At most %d tags are allowed", MaxTags))
	}
	for _, tag := range req.Tags {
		if n := utf8.RuneCountInString(tag); n == 0 || n > TagMax {
			return errors.NewFieldValidationError("tags",
				fmt.Sprintf("Each tag must be 1-%d characters", TagMax))
		}
	}
	switch req.Privacy {
	case domain.PrivacyPublic, domain.PrivacyPrivate, domain.PrivacyUnlisted:
	default:
		return errors.NewFieldValidationError("privacy",
			"Privacy must be one of public, private, unlisted")
	}
	return nil
}

// ChatMessage validates a chat message request
func ChatMessage(req *domain.ChatMessageRequest) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(req.Message)); n == 0 || n > ChatMessageMax {
		return errors.NewFieldValidationError("message",
			fmt.Sprintf("Message must be 1-%d characters", ChatMessageMax))
	}
	return nil
}

// ProfileUpdate validates an owner-initiated profile edit
func ProfileUpdate(req *domain.UpdateProfileRequest) error {
	if req.DisplayName != nil {
		if n := utf8.RuneCountInString(*req.DisplayName); n == 0 || n > DisplayNameMax {
			return errors.NewFieldValidationError("display_name",
				fmt.Sprintf("Display name must be 1-%d characters", DisplayNameMax))
		}
	}
	if req.Bio != nil && utf8.RuneCountInString(*req.Bio) > DescriptionMax {
		return errors.NewFieldValidationError("bio",
			fmt.Sprintf("Bio must be at most %d characters", DescriptionMax))
	}
	return nil
}

func validCategory(category string) bool {
	for _, c := range domain.MediaCategories {
		if category == c {
			return true
		}
	}
	return false
}
