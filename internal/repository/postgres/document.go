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

// PostgresDocumentRepository implements the DocumentRepository interface
// using PostgreSQL. Version rows are append-only: the same id may appear
// many times with different created_at values.
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new PostgresDocumentRepository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const documentColumns = `id, created_at, user_id, title, kind, content, file_name, file_type, file_size, blob_url, page_count, word_count, is_analyzed`

func scanDocument(row interface{ Scan(...any) error }, doc *models.Document) error {
	var content, fileName, fileType, blobURL *string
	var fileSize *int64
	err := row.Scan(
		&doc.ID,
		&doc.CreatedAt,
		&doc.UserID,
		&doc.Title,
		&doc.Kind,
		&content,
		&fileName,
		&fileType,
		&fileSize,
		&blobURL,
		&doc.PageCount,
		&doc.WordCount,
		&doc.IsAnalyzed,
	)
	if err != nil {
		return err
	}
	if content != nil {
		doc.Content = *content
	}
	if fileName != nil {
		doc.FileName = *fileName
	}
	if fileType != nil {
		doc.FileType = models.FileType(*fileType)
	}
	if fileSize != nil {
		doc.FileSize = *fileSize
	}
	if blobURL != nil {
		doc.BlobURL = *blobURL
	}
	return nil
}

// CreateVersion inserts a new document version row
func (r *PostgresDocumentRepository) CreateVersion(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`, r.tables.Documents, documentColumns)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.ID,
		doc.CreatedAt,
		doc.UserID,
		doc.Title,
		doc.Kind,
		nullable(doc.Content),
		nullable(doc.FileName),
		nullable(string(doc.FileType)),
		nullableInt64(doc.FileSize),
		nullable(doc.BlobURL),
		doc.PageCount,
		doc.WordCount,
		doc.IsAnalyzed,
	).Scan(&doc.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("document version (%s, %s) already exists", doc.ID, doc.CreatedAt),
				ResourceType: "document",
				ResourceID:   doc.ID,
			}
		}
		return fmt.Errorf("create document version: %w", err)
	}

	return nil
}

// GetLatest retrieves the version with the greatest created_at
func (r *PostgresDocumentRepository) GetLatest(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, documentColumns, r.tables.Documents)

	var doc models.Document
	executor := GetExecutor(ctx, r.pool)
	if err := scanDocument(executor.QueryRow(ctx, query, id), &doc); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get latest document: %w", err)
	}

	return &doc, nil
}

// GetAllVersions retrieves every version of the id, oldest first
func (r *PostgresDocumentRepository) GetAllVersions(ctx context.Context, id string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
		ORDER BY created_at ASC
	`, documentColumns, r.tables.Documents)

	return r.queryDocuments(ctx, query, id)
}

// ListByUser retrieves the user's documents, newest first
func (r *PostgresDocumentRepository) ListByUser(ctx context.Context, userID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, documentColumns, r.tables.Documents)

	return r.queryDocuments(ctx, query, userID)
}

func (r *PostgresDocumentRepository) queryDocuments(ctx context.Context, query string, arg any) ([]models.Document, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := scanDocument(rows, &doc); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	// Return empty slice instead of nil
	if docs == nil {
		docs = []models.Document{}
	}

	return docs, nil
}

// SetAnalyzed updates the is_analyzed flag, the only in-place document
// mutation allowed
func (r *PostgresDocumentRepository) SetAnalyzed(ctx context.Context, id string, analyzed bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_analyzed = $1
		WHERE id = $2
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, analyzed, id)
	if err != nil {
		return fmt.Errorf("update document analysis status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteVersionsAfter removes versions created strictly after the timestamp
func (r *PostgresDocumentRepository) DeleteVersionsAfter(ctx context.Context, id string, after time.Time) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND created_at > $2
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, after)
	if err != nil {
		return 0, fmt.Errorf("truncate document versions: %w", err)
	}

	return result.RowsAffected(), nil
}

// DeleteByID removes every version of the id
func (r *PostgresDocumentRepository) DeleteByID(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete document versions: %w", err)
	}

	return nil
}

// nullable maps the empty string to NULL so optional text columns stay
// NULL rather than holding empty strings.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableInt64(n int64) *int64 {
	if n == 0 {
		return nil
	}
	return &n
}
