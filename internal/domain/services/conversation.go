package services

import (
	"context"
	"time"

	"casefile/internal/domain/models"
)

// ConversationService handles chat history with the same truncate and
// cascade discipline as documents, used by regenerate and edit flows.
type ConversationService interface {
	// CreateChat starts a new chat session.
	CreateChat(ctx context.Context, req *CreateChatRequest) (*models.Chat, error)

	// GetChat returns the chat or ErrNotFound.
	GetChat(ctx context.Context, chatID string) (*models.Chat, error)

	// ListChats returns the user's chats, newest first.
	ListChats(ctx context.Context, userID string) ([]models.Chat, error)

	// UpdateVisibility switches a chat between private and public.
	UpdateVisibility(ctx context.Context, chatID string, visibility models.ChatVisibility) error

	// SaveMessages appends messages to chat history.
	SaveMessages(ctx context.Context, messages []models.Message) error

	// GetMessages returns the chat's messages in conversation order.
	GetMessages(ctx context.Context, chatID string) ([]models.Message, error)

	// GetMessage returns a single message or ErrNotFound.
	GetMessage(ctx context.Context, messageID string) (*models.Message, error)

	// TruncateAfter deletes messages created at or after the timestamp
	// (inclusive - the regenerate-from-this-point boundary), removing
	// their votes first. Repeating the call is a no-op.
	TruncateAfter(ctx context.Context, chatID string, since time.Time) error

	// VoteMessage records a thumbs up/down, overwriting any earlier vote
	// on the same message.
	VoteMessage(ctx context.Context, req *VoteRequest) error

	// GetVotes returns all votes of the chat.
	GetVotes(ctx context.Context, chatID string) ([]models.Vote, error)

	// DeleteChat removes the chat and its history: votes, then messages,
	// then the chat row.
	DeleteChat(ctx context.Context, chatID string) error
}

// CreateChatRequest represents a chat creation request
type CreateChatRequest struct {
	ID         string                `json:"id,omitempty"`
	UserID     string                `json:"-"` // Set by handler from request context
	Title      string                `json:"title"`
	Visibility models.ChatVisibility `json:"visibility,omitempty"`
}

// VoteRequest represents a vote upsert request
type VoteRequest struct {
	ChatID    string `json:"chat_id"`
	MessageID string `json:"message_id"`
	IsUpvoted bool   `json:"is_upvoted"`
}
