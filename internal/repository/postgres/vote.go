package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"casefile/internal/domain/models"
	"casefile/internal/domain/repositories"
)

// PostgresVoteRepository implements the VoteRepository interface using
// PostgreSQL. The votes table is keyed by message_id, so the upsert can
// never leave two rows for one message regardless of interleaving.
type PostgresVoteRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewVoteRepository creates a new PostgresVoteRepository
func NewVoteRepository(config *RepositoryConfig) repositories.VoteRepository {
	return &PostgresVoteRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Upsert inserts the vote or overwrites an existing one for the message.
// Last write wins under concurrent votes on the same message.
func (r *PostgresVoteRepository) Upsert(ctx context.Context, vote *models.Vote) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (chat_id, message_id, is_upvoted)
		VALUES ($1, $2, $3)
		ON CONFLICT (message_id) DO UPDATE SET is_upvoted = EXCLUDED.is_upvoted
	`, r.tables.Votes)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, vote.ChatID, vote.MessageID, vote.IsUpvoted); err != nil {
		return fmt.Errorf("upsert vote: %w", err)
	}

	return nil
}

// ListByChat returns all votes of the chat
func (r *PostgresVoteRepository) ListByChat(ctx context.Context, chatID string) ([]models.Vote, error) {
	query := fmt.Sprintf(`
		SELECT chat_id, message_id, is_upvoted
		FROM %s
		WHERE chat_id = $1
	`, r.tables.Votes)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	var votes []models.Vote
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ChatID, &v.MessageID, &v.IsUpvoted); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate votes: %w", err)
	}

	if votes == nil {
		votes = []models.Vote{}
	}

	return votes, nil
}

// DeleteByMessageIDs removes votes referencing the given messages
func (r *PostgresVoteRepository) DeleteByMessageIDs(ctx context.Context, chatID string, messageIDs []string) (int64, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE chat_id = $1 AND message_id = ANY($2)
	`, r.tables.Votes)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, chatID, messageIDs)
	if err != nil {
		return 0, fmt.Errorf("delete votes: %w", err)
	}

	return result.RowsAffected(), nil
}

// DeleteByChat removes all votes of the chat
func (r *PostgresVoteRepository) DeleteByChat(ctx context.Context, chatID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE chat_id = $1`, r.tables.Votes)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, chatID); err != nil {
		return fmt.Errorf("delete votes: %w", err)
	}

	return nil
}
