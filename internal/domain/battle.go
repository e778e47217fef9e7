package domain

import "time"

// BattleFormat is the competition format of a battle
type BattleFormat string

const (
	FormatFreestyle BattleFormat = "freestyle"
	FormatWritten   BattleFormat = "written"
	FormatCypher    BattleFormat = "cypher"
)

// BattleStatus is the lifecycle phase of a battle
type BattleStatus string

const (
	StatusWaiting   BattleStatus = "waiting"
	StatusActive    BattleStatus = "active"
	StatusVoting    BattleStatus = "voting"
	StatusCompleted BattleStatus = "completed"
)

// Battle represents one competition instance with its embedded
// participants and votes. Participants keep join order.
type Battle struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Format          BattleFormat  `json:"format"`
	TimeLimit       int           `json:"time_limit"` // seconds, advisory
	MaxParticipants int           `json:"max_participants"`
	Status          BattleStatus  `json:"status"`
	CreatedBy       string        `json:"created_by"`
	Participants    []Participant `json:"participants"`
	Votes           []Vote        `json:"votes"`
	Winner          string        `json:"winner,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Participant is a user who joined a battle and may submit a performance
type Participant struct {
	UserID      string       `json:"user_id"`
	DisplayName string       `json:"display_name"`
	PhotoURL    string       `json:"photo_url"`
	JoinedAt    time.Time    `json:"joined_at"`
	Performance *Performance `json:"performance,omitempty"`
}

// Performance is a participant's submitted entry
type Performance struct {
	Content     string    `json:"content"`
	SubmittedAt time.Time `json:"submitted_at"`
	Votes       int       `json:"votes"`
}

// Vote records one spectator's vote for a participant
type Vote struct {
	VoterID       string    `json:"voter_id"`
	ParticipantID string    `json:"participant_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// HasParticipant reports whether userID has joined the battle
func (b *Battle) HasParticipant(userID string) bool {
	for i := range b.Participants {
		if b.Participants[i].UserID == userID {
			return true
		}
	}
	return false
}

// HasVoted reports whether voterID has already cast a vote
func (b *Battle) HasVoted(voterID string) bool {
	for i := range b.Votes {
		if b.Votes[i].VoterID == voterID {
			return true
		}
	}
	return false
}

// Join appends a participant, enforcing the join invariants: the battle
// must still be waiting, the user must not already be in, and capacity
// must not be exceeded. Reaching capacity flips the battle to active.
func (b *Battle) Join(p Participant) error {
	if b.Status != StatusWaiting {
		return ErrBattleNotJoinable
	}
	if b.HasParticipant(p.UserID) {
		return ErrAlreadyJoined
	}
	if len(b.Participants) >= b.MaxParticipants {
		return ErrBattleFull
	}

	b.Participants = append(b.Participants, p)
	if len(b.Participants) == b.MaxParticipants {
		b.Status = StatusActive
	}
	return nil
}

// SubmitPerformance attaches a performance to the caller's participant
// entry. Once every participant has submitted, the battle moves to the
// voting phase.
func (b *Battle) SubmitPerformance(userID, content string, now time.Time) error {
	if b.Status != StatusActive {
		return ErrBattleNotActive
	}

	var target *Participant
	for i := range b.Participants {
		if b.Participants[i].UserID == userID {
			target = &b.Participants[i]
			break
		}
	}
	if target == nil {
		return ErrNotParticipant
	}
	if target.Performance != nil {
		return ErrAlreadySubmitted
	}

	target.Performance = &Performance{
		Content:     content,
		SubmittedAt: now,
	}

	for i := range b.Participants {
		if b.Participants[i].Performance == nil {
			return nil
		}
	}
	b.Status = StatusVoting
	return nil
}

// CastVote records a vote for participantID, enforcing voting
// exclusivity: one vote per voter, participants may not vote, and the
// target must be a participant with the battle in the voting phase.
func (b *Battle) CastVote(voterID, participantID string, now time.Time) error {
	if b.Status != StatusVoting {
		return ErrBattleNotVoting
	}
	if b.HasParticipant(voterID) {
		return ErrParticipantVote
	}
	if b.HasVoted(voterID) {
		return ErrAlreadyVoted
	}

	var target *Participant
	for i := range b.Participants {
		if b.Participants[i].UserID == participantID {
			target = &b.Participants[i]
			break
		}
	}
	if target == nil {
		return ErrVoteTargetNotFound
	}

	b.Votes = append(b.Votes, Vote{
		VoterID:       voterID,
		ParticipantID: participantID,
		CreatedAt:     now,
	})
	if target.Performance != nil {
		target.Performance.Votes++
	}
	return nil
}

// Finalize tallies the votes, records the winner and completes the
// battle. Only the creator may finalize. A tie for first place leaves
// the winner unset.
func (b *Battle) Finalize(callerID string) error {
	if callerID != b.CreatedBy {
		return ErrNotBattleCreator
	}
	if b.Status != StatusVoting {
		return ErrBattleNotVoting
	}

	tally := make(map[string]int, len(b.Participants))
	for i := range b.Votes {
		tally[b.Votes[i].ParticipantID]++
	}

	best, bestCount, tied := "", -1, false
	for i := range b.Participants {
		count := tally[b.Participants[i].UserID]
		switch {
		case count > bestCount:
			best, bestCount, tied = b.Participants[i].UserID, count, false
		case count == bestCount:
			tied = true
		}
	}

	if !tied && bestCount > 0 {
		b.Winner = best
	}
	b.Status = StatusCompleted
	return nil
}

// BattleSummary is the shallow list representation of a battle
type BattleSummary struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Format           BattleFormat `json:"format"`
	TimeLimit        int          `json:"time_limit"`
	MaxParticipants  int          `json:"max_participants"`
	Status           BattleStatus `json:"status"`
	CreatedBy        string       `json:"created_by"`
	ParticipantCount int          `json:"participant_count"`
	VoteCount        int          `json:"vote_count"`
	Winner           string       `json:"winner,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
}

// CreateBattleRequest is the payload for creating a battle
type CreateBattleRequest struct {
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Format          BattleFormat `json:"format"`
	TimeLimit       int          `json:"time_limit"`
	MaxParticipants int          `json:"max_participants"`
}

// SubmitPerformanceRequest is the payload for submitting a performance
type SubmitPerformanceRequest struct {
	Content string `json:"content"`
}

// CastVoteRequest is the payload for casting a vote
type CastVoteRequest struct {
	ParticipantID string `json:"participant_id"`
}

// BattleEvent is pushed to WebSocket subscribers after every battle mutation
type BattleEvent struct {
	Type     string  `json:"type"` // created | joined | performance | vote | finalized | chat
	BattleID string  `json:"battle_id"`
	Battle   *Battle `json:"battle,omitempty"`
}
