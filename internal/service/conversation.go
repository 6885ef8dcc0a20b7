package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"casefile/internal/config"
	"casefile/internal/domain"
	"casefile/internal/domain/models"
	"casefile/internal/domain/repositories"
	"casefile/internal/domain/services"
)

// conversationService implements the ConversationService interface.
type conversationService struct {
	chatRepo    repositories.ChatRepository
	messageRepo repositories.MessageRepository
	voteRepo    repositories.VoteRepository
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(
	chatRepo repositories.ChatRepository,
	messageRepo repositories.MessageRepository,
	voteRepo repositories.VoteRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ConversationService {
	return &conversationService{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		voteRepo:    voteRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateChat starts a new chat session
func (s *conversationService) CreateChat(ctx context.Context, req *services.CreateChatRequest) (*models.Chat, error) {
	if err := s.validateCreateChatRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}

	chat := &models.Chat{
		ID:         id,
		UserID:     req.UserID,
		Title:      req.Title,
		Visibility: visibility,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.chatRepo.Create(ctx, chat); err != nil {
		return nil, err
	}

	s.logger.Debug("chat created", "chat_id", chat.ID, "user_id", chat.UserID)

	return chat, nil
}

// GetChat returns the chat or ErrNotFound
func (s *conversationService) GetChat(ctx context.Context, chatID string) (*models.Chat, error) {
	return s.chatRepo.Get(ctx, chatID)
}

// ListChats returns the user's chats, newest first
func (s *conversationService) ListChats(ctx context.Context, userID string) ([]models.Chat, error) {
	return s.chatRepo.ListByUser(ctx, userID)
}

// UpdateVisibility switches a chat between private and public
func (s *conversationService) UpdateVisibility(ctx context.Context, chatID string, visibility models.ChatVisibility) error {
	if visibility != models.VisibilityPrivate && visibility != models.VisibilityPublic {
		return fmt.Errorf("%w: visibility must be private or public", domain.ErrValidation)
	}
	return s.chatRepo.UpdateVisibility(ctx, chatID, visibility)
}

// SaveMessages appends messages to chat history
func (s *conversationService) SaveMessages(ctx context.Context, messages []models.Message) error {
	if len(messages) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := range messages {
		msg := &messages[i]
		if msg.ChatID == "" {
			return fmt.Errorf("%w: message requires a chat id", domain.ErrValidation)
		}
		if msg.Role == "" {
			return fmt.Errorf("%w: message requires a role", domain.ErrValidation)
		}
		if msg.ID == "" {
			msg.ID = uuid.New().String()
		}
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = now
		}
	}

	return s.messageRepo.SaveMessages(ctx, messages)
}

// GetMessages returns the chat's messages in conversation order
func (s *conversationService) GetMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	return s.messageRepo.ListByChat(ctx, chatID)
}

// GetMessage returns a single message or ErrNotFound
func (s *conversationService) GetMessage(ctx context.Context, messageID string) (*models.Message, error) {
	return s.messageRepo.Get(ctx, messageID)
}

// TruncateAfter deletes messages created at or after the timestamp. The
// boundary is inclusive: regenerating from a message removes that
// message too. Votes go first so none survives its message.
func (s *conversationService) TruncateAfter(ctx context.Context, chatID string, since time.Time) error {
	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		ids, err := s.messageRepo.ListIDsSince(txCtx, chatID, since)
		if err != nil {
			return fmt.Errorf("truncate chat %s: %w", chatID, err)
		}
		if len(ids) == 0 {
			return nil
		}

		votes, err := s.voteRepo.DeleteByMessageIDs(txCtx, chatID, ids)
		if err != nil {
			return fmt.Errorf("truncate chat %s: %w", chatID, err)
		}

		messages, err := s.messageRepo.DeleteByIDs(txCtx, chatID, ids)
		if err != nil {
			return fmt.Errorf("truncate chat %s: %w", chatID, err)
		}

		s.logger.Info("chat history truncated",
			"chat_id", chatID,
			"since", since,
			"messages_deleted", messages,
			"votes_deleted", votes,
		)

		return nil
	})
}

// VoteMessage records a thumbs up/down, overwriting any earlier vote on
// the same message
func (s *conversationService) VoteMessage(ctx context.Context, req *services.VoteRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.ChatID, validation.Required),
		validation.Field(&req.MessageID, validation.Required),
	); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// The message must exist; a vote on a deleted or never-saved
	// message is a client error, not a silent insert.
	msg, err := s.messageRepo.Get(ctx, req.MessageID)
	if err != nil {
		return err
	}
	if msg.ChatID != req.ChatID {
		return fmt.Errorf("%w: message %s does not belong to chat %s", domain.ErrValidation, req.MessageID, req.ChatID)
	}

	return s.voteRepo.Upsert(ctx, &models.Vote{
		ChatID:    req.ChatID,
		MessageID: req.MessageID,
		IsUpvoted: req.IsUpvoted,
	})
}

// GetVotes returns all votes of the chat
func (s *conversationService) GetVotes(ctx context.Context, chatID string) ([]models.Vote, error) {
	return s.voteRepo.ListByChat(ctx, chatID)
}

// DeleteChat removes the chat and its history. Cascade order is votes,
// messages, then the chat row; each step is idempotent so an aborted
// cascade can be retried.
func (s *conversationService) DeleteChat(ctx context.Context, chatID string) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.voteRepo.DeleteByChat(txCtx, chatID); err != nil {
			return fmt.Errorf("delete chat %s: %w", chatID, err)
		}
		if err := s.messageRepo.DeleteByChat(txCtx, chatID); err != nil {
			return fmt.Errorf("delete chat %s: %w", chatID, err)
		}
		if err := s.chatRepo.Delete(txCtx, chatID); err != nil {
			return fmt.Errorf("delete chat %s: %w", chatID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("chat deleted", "chat_id", chatID)
	return nil
}

// Validation methods


func (s *conversationService) validateCreateChatRequest(req *services.CreateChatRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxChatTitleLength),
		),
		validation.Field(&req.Visibility,
			validation.In(models.VisibilityPrivate, models.VisibilityPublic),
		),
	)
}
