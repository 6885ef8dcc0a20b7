package repositories

import (
	"context"
	"time"

	"casefile/internal/domain/models"
)

// DocumentRepository persists document version rows keyed by
// (id, created_at). Rows are immutable once written except for the
// is_analyzed flag; edits append new versions instead of updating.
type DocumentRepository interface {
	// CreateVersion inserts a new version row. Multiple rows may share an
	// id; no uniqueness is enforced beyond the (id, created_at) key.
	CreateVersion(ctx context.Context, doc *models.Document) error

	// GetLatest returns the version with the greatest created_at for the
	// id, or ErrNotFound.
	GetLatest(ctx context.Context, id string) (*models.Document, error)

	// GetAllVersions returns every version of the id, created_at ascending.
	GetAllVersions(ctx context.Context, id string) ([]models.Document, error)

	// ListByUser returns the user's documents, created_at descending.
	ListByUser(ctx context.Context, userID string) ([]models.Document, error)

	// SetAnalyzed flips the is_analyzed flag on every version of the id.
	SetAnalyzed(ctx context.Context, id string, analyzed bool) error

	// DeleteVersionsAfter removes versions with created_at strictly after
	// the timestamp. Idempotent: deleting already-absent rows is a no-op.
	DeleteVersionsAfter(ctx context.Context, id string, after time.Time) (int64, error)

	// DeleteByID removes every version of the id. Idempotent.
	DeleteByID(ctx context.Context, id string) error
}

// SuggestionRepository persists suggestions tied to one document version
// via (document_id, document_created_at).
type SuggestionRepository interface {
	SaveSuggestions(ctx context.Context, suggestions []models.Suggestion) error

	// ListByDocument returns suggestions across all versions of the
	// document id, created_at ascending.
	ListByDocument(ctx context.Context, documentID string) ([]models.Suggestion, error)

	// DeleteForVersionsAfter removes suggestions whose document version
	// timestamp is strictly after the given instant. Runs before the
	// matching document versions are deleted so no suggestion ever
	// references a missing version. Idempotent.
	DeleteForVersionsAfter(ctx context.Context, documentID string, after time.Time) (int64, error)

	// DeleteByDocument removes all suggestions for the document id. Idempotent.
	DeleteByDocument(ctx context.Context, documentID string) error
}
