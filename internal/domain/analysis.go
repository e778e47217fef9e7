package domain

import "time"

// AnalysisResult wraps raw model output for an AI analysis call. The
// content is the model's text response as-is; clients parse the JSON
// shape requested by the prompt themselves.
type AnalysisResult struct {
	Kind      string    `json:"kind"` // judge | performance | cypher | beats | moderation
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// JudgeRequest asks for a head-to-head judgment of two performances
type JudgeRequest struct {
	Participant1 string `json:"participant1"`
	Performance1 string `json:"performance1"`
	Participant2 string `json:"participant2"`
	Performance2 string `json:"performance2"`
}

// AnalyzeRequest asks for a technical/artistic breakdown of one performance
type AnalyzeRequest struct {
	AudioURL   string `json:"audio_url,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

// CypherContext carries the collaborative session state for cypher analysis
type CypherContext struct {
	Theme                string   `json:"theme,omitempty"`
	PreviousParticipants []string `json:"previous_participants,omitempty"`
	BeatInfo             string   `json:"beat_info,omitempty"`
}

// CypherRequest asks for an analysis of a cypher performance in context
type CypherRequest struct {
	ParticipantName string        `json:"participant_name"`
	Performance     string        `json:"performance"`
	Context         CypherContext `json:"context"`
}

// BeatRequest asks for beat suggestions matching a style and mood
type BeatRequest struct {
	Style string `json:"style"`
	Mood  string `json:"mood"`
}
