package domain

import "errors"

// Sentinel errors returned by battle state transitions and repositories.
// Services map these onto the HTTP error taxonomy.
var (
	ErrBattleNotFound      = errors.New("battle not found")
	ErrBattleNotJoinable   = errors.New("battle is not accepting participants")
	ErrBattleFull          = errors.New("battle is full")
	ErrAlreadyJoined       = errors.New("user has already joined this battle")
	ErrBattleNotActive     = errors.New("battle is not active")
	ErrBattleNotVoting     = errors.New("battle is not in the voting phase")
	ErrNotParticipant      = errors.New("user is not a participant of this battle")
	ErrAlreadySubmitted    = errors.New("performance already submitted")
	ErrAlreadyVoted        = errors.New("user has already voted in this battle")
	ErrParticipantVote     = errors.New("participants cannot vote in their own battle")
	ErrVoteTargetNotFound  = errors.New("vote target is not a participant of this battle")
	ErrNotBattleCreator    = errors.New("only the battle creator can perform this action")
	ErrNoPerformances      = errors.New("battle has no submitted performances")

	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email is already registered")
	ErrUsernameTaken = errors.New("username is already taken")

	ErrMediaNotFound      = errors.New("media not found")
	ErrMediaNotVisible    = errors.New("media is not visible to this user")
	ErrModerationNotFound = errors.New("moderation item not found")
)
