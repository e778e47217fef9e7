package domain

import "time"

// ChatMessage is one message in a battle's chat stream
type ChatMessage struct {
	ID        string    `json:"id"`
	BattleID  string    `json:"battle_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessageRequest is the payload for posting a chat message
type ChatMessageRequest struct {
	Message string `json:"message"`
}
