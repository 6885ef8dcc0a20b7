package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"casefile/internal/domain"
	"casefile/internal/domain/models"
	"casefile/internal/domain/repositories"
)

// PostgresMessageRepository implements the MessageRepository interface
// using PostgreSQL. Message rows are append-only; history rewrites go
// through the truncate cascade, never through UPDATE.
type PostgresMessageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewMessageRepository creates a new PostgresMessageRepository
func NewMessageRepository(config *RepositoryConfig) repositories.MessageRepository {
	return &PostgresMessageRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// SaveMessages bulk-inserts message rows
func (r *PostgresMessageRepository) SaveMessages(ctx context.Context, messages []models.Message) error {
	if len(messages) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, chat_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	for i := range messages {
		m := &messages[i]
		_, err := executor.Exec(ctx, query,
			m.ID,
			m.ChatID,
			m.Role,
			m.Content, // pgx handles map -> JSONB
			m.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("save message %s: %w", m.ID, err)
		}
	}

	return nil
}

// ListByChat returns messages in conversation order
func (r *PostgresMessageRepository) ListByChat(ctx context.Context, chatID string) ([]models.Message, error) {
	query := fmt.Sprintf(`
		SELECT id, chat_id, role, content, created_at
		FROM %s
		WHERE chat_id = $1
		ORDER BY created_at ASC
	`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		err := rows.Scan(
			&m.ID,
			&m.ChatID,
			&m.Role,
			&m.Content,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	if messages == nil {
		messages = []models.Message{}
	}

	return messages, nil
}

// Get retrieves a message by ID
func (r *PostgresMessageRepository) Get(ctx context.Context, messageID string) (*models.Message, error) {
	query := fmt.Sprintf(`
		SELECT id, chat_id, role, content, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Messages)

	var m models.Message
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, messageID).Scan(
		&m.ID,
		&m.ChatID,
		&m.Role,
		&m.Content,
		&m.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("message %s: %w", messageID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get message: %w", err)
	}

	return &m, nil
}

// ListIDsSince returns ids of messages created at or after the timestamp.
// The boundary is inclusive: regenerating from a message removes that
// message too.
func (r *PostgresMessageRepository) ListIDsSince(ctx context.Context, chatID string, since time.Time) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT id
		FROM %s
		WHERE chat_id = $1 AND created_at >= $2
	`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, chatID, since)
	if err != nil {
		return nil, fmt.Errorf("list message ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan message id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message ids: %w", err)
	}

	return ids, nil
}

// DeleteByIDs removes the given messages of the chat
func (r *PostgresMessageRepository) DeleteByIDs(ctx context.Context, chatID string, messageIDs []string) (int64, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE chat_id = $1 AND id = ANY($2)
	`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, chatID, messageIDs)
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}

	return result.RowsAffected(), nil
}

// DeleteByChat removes all messages of the chat
func (r *PostgresMessageRepository) DeleteByChat(ctx context.Context, chatID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE chat_id = $1`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, chatID); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}

	return nil
}
