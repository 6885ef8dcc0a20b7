package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"casefile/internal/domain"
	"casefile/internal/domain/models"
	"casefile/internal/domain/repositories"
)

// PostgresChatRepository implements the ChatRepository interface using
// PostgreSQL.
type PostgresChatRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewChatRepository creates a new PostgresChatRepository
func NewChatRepository(config *RepositoryConfig) repositories.ChatRepository {
	return &PostgresChatRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new chat session
func (r *PostgresChatRepository) Create(ctx context.Context, chat *models.Chat) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, title, visibility, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, r.tables.Chats)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		chat.ID,
		chat.UserID,
		chat.Title,
		chat.Visibility,
		chat.CreatedAt,
	).Scan(&chat.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("chat %s already exists", chat.ID),
				ResourceType: "chat",
				ResourceID:   chat.ID,
			}
		}
		return fmt.Errorf("create chat: %w", err)
	}

	return nil
}

// Get retrieves a chat by ID
func (r *PostgresChatRepository) Get(ctx context.Context, chatID string) (*models.Chat, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, title, visibility, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Chats)

	var chat models.Chat
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, chatID).Scan(
		&chat.ID,
		&chat.UserID,
		&chat.Title,
		&chat.Visibility,
		&chat.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get chat: %w", err)
	}

	return &chat, nil
}

// ListByUser retrieves the user's chats, newest first
func (r *PostgresChatRepository) ListByUser(ctx context.Context, userID string) ([]models.Chat, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, title, visibility, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, r.tables.Chats)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		var chat models.Chat
		err := rows.Scan(
			&chat.ID,
			&chat.UserID,
			&chat.Title,
			&chat.Visibility,
			&chat.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, chat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}

	// Return empty slice instead of nil
	if chats == nil {
		chats = []models.Chat{}
	}

	return chats, nil
}

// UpdateVisibility switches a chat between private and public
func (r *PostgresChatRepository) UpdateVisibility(ctx context.Context, chatID string, visibility models.ChatVisibility) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET visibility = $1
		WHERE id = $2
	`, r.tables.Chats)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, visibility, chatID)
	if err != nil {
		return fmt.Errorf("update chat visibility: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes the chat row
func (r *PostgresChatRepository) Delete(ctx context.Context, chatID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Chats)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, chatID); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}

	return nil
}
