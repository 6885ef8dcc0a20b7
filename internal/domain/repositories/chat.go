package repositories

import (
	"context"
	"time"

	"casefile/internal/domain/models"
)

// ChatRepository persists chat sessions.
type ChatRepository interface {
	Create(ctx context.Context, chat *models.Chat) error

	// Get returns the chat or ErrNotFound.
	Get(ctx context.Context, chatID string) (*models.Chat, error)

	// ListByUser returns the user's chats, created_at descending.
	ListByUser(ctx context.Context, userID string) ([]models.Chat, error)

	// UpdateVisibility switches a chat between private and public.
	UpdateVisibility(ctx context.Context, chatID string, visibility models.ChatVisibility) error

	// Delete removes the chat row itself. Dependent votes and messages
	// must already be gone; the service orders the cascade. Idempotent.
	Delete(ctx context.Context, chatID string) error
}

// MessageRepository persists chat history rows, append-only.
type MessageRepository interface {
	SaveMessages(ctx context.Context, messages []models.Message) error

	// ListByChat returns messages in conversation order, created_at ascending.
	ListByChat(ctx context.Context, chatID string) ([]models.Message, error)

	// Get returns the message or ErrNotFound.
	Get(ctx context.Context, messageID string) (*models.Message, error)

	// ListIDsSince returns ids of messages with created_at at or after the
	// timestamp (inclusive - the regenerate-from-here boundary).
	ListIDsSince(ctx context.Context, chatID string, since time.Time) ([]string, error)

	// DeleteByIDs removes the given messages of the chat. Idempotent.
	DeleteByIDs(ctx context.Context, chatID string, messageIDs []string) (int64, error)

	// DeleteByChat removes all messages of the chat. Idempotent.
	DeleteByChat(ctx context.Context, chatID string) error
}

// VoteRepository persists per-message votes, at most one row per message.
type VoteRepository interface {
	// Upsert inserts the vote or overwrites is_upvoted when a row for the
	// message already exists. Last write wins under concurrent votes.
	Upsert(ctx context.Context, vote *models.Vote) error

	// ListByChat returns all votes of the chat.
	ListByChat(ctx context.Context, chatID string) ([]models.Vote, error)

	// DeleteByMessageIDs removes votes referencing the given messages. Idempotent.
	DeleteByMessageIDs(ctx context.Context, chatID string, messageIDs []string) (int64, error)

	// DeleteByChat removes all votes of the chat. Idempotent.
	DeleteByChat(ctx context.Context, chatID string) error
}
