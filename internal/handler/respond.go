package handler

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"vv-api/internal/domain"
	"vv-api/internal/middleware"
	"vv-api/pkg/errors"
)

// successResponse is the JSON envelope for successful responses
type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// respondJSON writes data inside the success envelope
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(successResponse{Success: true, Data: data})
}

// respondError maps any error onto the error envelope
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteJSON(w, toAppError(err), middleware.RequestIDFromContext(r.Context()))
}

// toAppError translates domain sentinel errors into the HTTP taxonomy
func toAppError(err error) *errors.AppError {
	switch {
	case stderrors.Is(err, domain.ErrBattleNotFound),
		stderrors.Is(err, domain.ErrUserNotFound),
		stderrors.Is(err, domain.ErrMediaNotFound),
		stderrors.Is(err, domain.ErrModerationNotFound),
		stderrors.Is(err, domain.ErrVoteTargetNotFound),
		// Private media reads as absent rather than forbidden, so
		// existence of someone else's upload is not leaked
		stderrors.Is(err, domain.ErrMediaNotVisible):
		return errors.NewNotFoundError(err.Error())

	case stderrors.Is(err, domain.ErrBattleNotJoinable),
		stderrors.Is(err, domain.ErrBattleFull),
		stderrors.Is(err, domain.ErrAlreadyJoined),
		stderrors.Is(err, domain.ErrBattleNotActive),
		stderrors.Is(err, domain.ErrBattleNotVoting),
		stderrors.Is(err, domain.ErrAlreadySubmitted),
		stderrors.Is(err, domain.ErrAlreadyVoted),
		stderrors.Is(err, domain.ErrEmailTaken),
		stderrors.Is(err, domain.ErrUsernameTaken):
		return errors.NewConflictError(err.Error())

	case stderrors.Is(err, domain.ErrNotParticipant),
		stderrors.Is(err, domain.ErrParticipantVote),
		stderrors.Is(err, domain.ErrNotBattleCreator):
		return errors.NewAuthorizationError(err.Error())
	}

	return errors.FromError(err)
}

// decodeBody parses a JSON request body into dst
func decodeBody(r *http.Request, dst interface{}) *errors.AppError {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewValidationError("Invalid request body", nil)
	}
	return nil
}
