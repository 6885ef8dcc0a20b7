package repositories

import (
	"context"

	"casefile/internal/domain/models"
)

// SectionRepository persists the structural section tree of a document
// version. Range validation happens in the service before insert; the
// repository is plain row plumbing.
type SectionRepository interface {
	SaveSections(ctx context.Context, sections []models.DocumentSection) error

	// ListByDocument returns sections ordered by start_index ascending,
	// the order downstream renderers need to overlay ranges onto text.
	ListByDocument(ctx context.Context, documentID string) ([]models.DocumentSection, error)

	// DeleteByDocument removes all sections for the document id. Idempotent.
	DeleteByDocument(ctx context.Context, documentID string) error
}

// AnnotationRepository persists annotations attached to a document
// version. The only in-place update allowed is the is_resolved flag.
type AnnotationRepository interface {
	SaveAnnotations(ctx context.Context, annotations []models.DocumentAnnotation) error

	// ListByDocument returns annotations ordered by start_index ascending.
	ListByDocument(ctx context.Context, documentID string) ([]models.DocumentAnnotation, error)

	// Resolve sets the is_resolved flag. Returns ErrNotFound when no
	// annotation has the id.
	Resolve(ctx context.Context, id string, resolved bool) error

	// DeleteByDocument removes all annotations for the document id. Idempotent.
	DeleteByDocument(ctx context.Context, documentID string) error
}
