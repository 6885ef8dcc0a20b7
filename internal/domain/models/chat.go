package models

import (
	"time"
)

// ChatVisibility controls who can read a chat.
type ChatVisibility string

const (
	VisibilityPrivate ChatVisibility = "private"
	VisibilityPublic  ChatVisibility = "public"
)

// Chat represents a conversation session owned by a user.
type Chat struct {
	ID         string         `json:"id" db:"id"`
	UserID     string         `json:"user_id" db:"user_id"`
	Title      string         `json:"title" db:"title"`
	Visibility ChatVisibility `json:"visibility" db:"visibility"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// Message is one entry of a chat's history. Ordering by CreatedAt defines
// conversation order; regenerate/edit flows truncate the history at a
// message's CreatedAt (inclusive) and append fresh rows.
type Message struct {
	ID        string         `json:"id" db:"id"`
	ChatID    string         `json:"chat_id" db:"chat_id"`
	Role      string         `json:"role" db:"role"`
	Content   map[string]any `json:"content" db:"content"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// Vote records a thumbs up/down on a message. At most one row exists per
// MessageID; a second vote overwrites the first.
type Vote struct {
	ChatID    string `json:"chat_id" db:"chat_id"`
	MessageID string `json:"message_id" db:"message_id"`
	IsUpvoted bool   `json:"is_upvoted" db:"is_upvoted"`
}
