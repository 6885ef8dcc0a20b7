package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"casefile/internal/domain/models"
	"casefile/internal/domain/repositories"
)

// PostgresSuggestionRepository implements the SuggestionRepository
// interface using PostgreSQL.
type PostgresSuggestionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewSuggestionRepository creates a new PostgresSuggestionRepository
func NewSuggestionRepository(config *RepositoryConfig) repositories.SuggestionRepository {
	return &PostgresSuggestionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// SaveSuggestions bulk-inserts suggestion rows
func (r *PostgresSuggestionRepository) SaveSuggestions(ctx context.Context, suggestions []models.Suggestion) error {
	if len(suggestions) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, document_created_at, user_id, original_text, suggested_text, description, is_resolved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`, r.tables.Suggestions)

	executor := GetExecutor(ctx, r.pool)
	for i := range suggestions {
		s := &suggestions[i]
		_, err := executor.Exec(ctx, query,
			s.ID,
			s.DocumentID,
			s.DocumentCreatedAt,
			s.UserID,
			s.OriginalText,
			s.SuggestedText,
			s.Description,
			s.IsResolved,
			s.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("save suggestion %s: %w", s.ID, err)
		}
	}

	return nil
}

// ListByDocument returns suggestions across all versions of the document
func (r *PostgresSuggestionRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Suggestion, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, document_created_at, user_id, original_text, suggested_text, description, is_resolved, created_at
		FROM %s
		WHERE document_id = $1
		ORDER BY created_at ASC
	`, r.tables.Suggestions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []models.Suggestion
	for rows.Next() {
		var s models.Suggestion
		err := rows.Scan(
			&s.ID,
			&s.DocumentID,
			&s.DocumentCreatedAt,
			&s.UserID,
			&s.OriginalText,
			&s.SuggestedText,
			&s.Description,
			&s.IsResolved,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}

	if suggestions == nil {
		suggestions = []models.Suggestion{}
	}

	return suggestions, nil
}

// DeleteForVersionsAfter removes suggestions tied to versions created
// strictly after the timestamp
func (r *PostgresSuggestionRepository) DeleteForVersionsAfter(ctx context.Context, documentID string, after time.Time) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE document_id = $1 AND document_created_at > $2
	`, r.tables.Suggestions)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, documentID, after)
	if err != nil {
		return 0, fmt.Errorf("truncate suggestions: %w", err)
	}

	return result.RowsAffected(), nil
}

// DeleteByDocument removes all suggestions for the document
func (r *PostgresSuggestionRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, r.tables.Suggestions)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, documentID); err != nil {
		return fmt.Errorf("delete suggestions: %w", err)
	}

	return nil
}
