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

// PostgresSectionRepository implements the SectionRepository interface
// using PostgreSQL.
type PostgresSectionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewSectionRepository creates a new PostgresSectionRepository
func NewSectionRepository(config *RepositoryConfig) repositories.SectionRepository {
	return &PostgresSectionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// SaveSections bulk-inserts section rows
func (r *PostgresSectionRepository) SaveSections(ctx context.Context, sections []models.DocumentSection) error {
	if len(sections) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, title, level, start_index, end_index, parent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`, r.tables.Sections)

	executor := GetExecutor(ctx, r.pool)
	for i := range sections {
		s := &sections[i]
		_, err := executor.Exec(ctx, query,
			s.ID,
			s.DocumentID,
			s.Title,
			s.Level,
			s.StartIndex,
			s.EndIndex,
			s.ParentID,
			s.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("save section %s: %w", s.ID, err)
		}
	}

	return nil
}

// ListByDocument returns sections ordered by start_index ascending
func (r *PostgresSectionRepository) ListByDocument(ctx context.Context, documentID string) ([]models.DocumentSection, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, title, level, start_index, end_index, parent_id, created_at
		FROM %s
		WHERE document_id = $1
		ORDER BY start_index ASC
	`, r.tables.Sections)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []models.DocumentSection
	for rows.Next() {
		var s models.DocumentSection
		err := rows.Scan(
			&s.ID,
			&s.DocumentID,
			&s.Title,
			&s.Level,
			&s.StartIndex,
			&s.EndIndex,
			&s.ParentID,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sections: %w", err)
	}

	if sections == nil {
		sections = []models.DocumentSection{}
	}

	return sections, nil
}

// DeleteByDocument removes all sections for the document
func (r *PostgresSectionRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, r.tables.Sections)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, documentID); err != nil {
		return fmt.Errorf("delete sections: %w", err)
	}

	return nil
}

// PostgresAnnotationRepository implements the AnnotationRepository
// interface using PostgreSQL.
type PostgresAnnotationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewAnnotationRepository creates a new PostgresAnnotationRepository
func NewAnnotationRepository(config *RepositoryConfig) repositories.AnnotationRepository {
	return &PostgresAnnotationRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// SaveAnnotations bulk-inserts annotation rows
func (r *PostgresAnnotationRepository) SaveAnnotations(ctx context.Context, annotations []models.DocumentAnnotation) error {
	if len(annotations) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, start_index, end_index, text, type, comment, severity, is_resolved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`, r.tables.Annotations)

	executor := GetExecutor(ctx, r.pool)
	for i := range annotations {
		a := &annotations[i]
		_, err := executor.Exec(ctx, query,
			a.ID,
			a.DocumentID,
			a.StartIndex,
			a.EndIndex,
			a.Text,
			a.Type,
			a.Comment,
			a.Severity,
			a.IsResolved,
			a.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("save annotation %s: %w", a.ID, err)
		}
	}

	return nil
}

// ListByDocument returns annotations ordered by start_index ascending
func (r *PostgresAnnotationRepository) ListByDocument(ctx context.Context, documentID string) ([]models.DocumentAnnotation, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, start_index, end_index, text, type, comment, severity, is_resolved, created_at
		FROM %s
		WHERE document_id = $1
		ORDER BY start_index ASC
	`, r.tables.Annotations)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}
	defer rows.Close()

	var annotations []models.DocumentAnnotation
	for rows.Next() {
		var a models.DocumentAnnotation
		err := rows.Scan(
			&a.ID,
			&a.DocumentID,
			&a.StartIndex,
			&a.EndIndex,
			&a.Text,
			&a.Type,
			&a.Comment,
			&a.Severity,
			&a.IsResolved,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan annotation: %w", err)
		}
		annotations = append(annotations, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate annotations: %w", err)
	}

	if annotations == nil {
		annotations = []models.DocumentAnnotation{}
	}

	return annotations, nil
}

// Resolve sets the is_resolved flag, the sole allowed annotation update
func (r *PostgresAnnotationRepository) Resolve(ctx context.Context, id string, resolved bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_resolved = $1
		WHERE id = $2
	`, r.tables.Annotations)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, resolved, id)
	if err != nil {
		return fmt.Errorf("resolve annotation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("annotation %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByDocument removes all annotations for the document
func (r *PostgresAnnotationRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, r.tables.Annotations)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, documentID); err != nil {
		return fmt.Errorf("delete annotations: %w", err)
	}

	return nil
}
