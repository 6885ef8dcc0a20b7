package services

import (
	"context"
	"time"

	"casefile/internal/domain/models"
)

// DocumentService handles the document version lifecycle: append-only
// version creation, point-in-time truncation, and full cascade deletion.
type DocumentService interface {
	// SaveVersion inserts a new document version. Repeated saves with the
	// same id produce successive versions, never in-place updates.
	SaveVersion(ctx context.Context, req *SaveDocumentRequest) (*models.Document, error)

	// GetLatest returns the most recent version of the document id.
	GetLatest(ctx context.Context, id string) (*models.Document, error)

	// GetAllVersions returns all versions, created_at ascending.
	GetAllVersions(ctx context.Context, id string) ([]models.Document, error)

	// ListByUser returns the user's documents, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Document, error)

	// SetAnalyzed flips the is_analyzed flag, the one mutable document field.
	SetAnalyzed(ctx context.Context, id string, analyzed bool) error

	// TruncateAfter deletes versions created strictly after the timestamp,
	// cascading into suggestions tied to those versions first. Calling it
	// again with the same arguments is a no-op.
	TruncateAfter(ctx context.Context, id string, after time.Time) error

	// DeleteDocument removes the document and everything derived from it:
	// sections, annotations, suggestions, then the version rows.
	DeleteDocument(ctx context.Context, id string) error
}

// SaveDocumentRequest represents a document version creation request
type SaveDocumentRequest struct {
	ID        string              `json:"id,omitempty"` // Empty on first save; reused on edits
	UserID    string              `json:"-"`            // Set by handler from request context
	Title     string              `json:"title"`
	Kind      models.DocumentKind `json:"kind"`
	Content   string              `json:"content"`
	FileName  string              `json:"file_name,omitempty"`
	FileType  models.FileType     `json:"file_type,omitempty"`
	FileSize  int64               `json:"file_size,omitempty"`
	BlobURL   string              `json:"blob_url,omitempty"`
	PageCount *int                `json:"page_count,omitempty"`
	WordCount *int                `json:"word_count,omitempty"`
}
