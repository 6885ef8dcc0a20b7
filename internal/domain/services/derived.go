package services

import (
	"context"

	"casefile/internal/domain/models"
)

// DerivedContentService handles rows derived from a document version:
// sections, annotations and suggestions. All bulk saves validate index
// bounds against the owning version before anything is written.
type DerivedContentService interface {
	// SaveSections bulk-inserts sections after validating every range.
	// A single invalid range rejects the whole batch with no partial write.
	SaveSections(ctx context.Context, sections []models.DocumentSection) error

	// SaveAnnotations bulk-inserts annotations under the same range rules.
	SaveAnnotations(ctx context.Context, annotations []models.DocumentAnnotation) error

	// ListSections returns the document's sections, start_index ascending.
	ListSections(ctx context.Context, documentID string) ([]models.DocumentSection, error)

	// ListAnnotations returns the document's annotations, start_index ascending.
	ListAnnotations(ctx context.Context, documentID string) ([]models.DocumentAnnotation, error)

	// ResolveAnnotation sets is_resolved, the sole allowed annotation
	// update. Fails with ErrNotFound when the annotation does not exist.
	ResolveAnnotation(ctx context.Context, id string, resolved bool) error

	// SaveSuggestions bulk-inserts suggestions tied to document versions.
	SaveSuggestions(ctx context.Context, suggestions []models.Suggestion) error

	// ListSuggestions returns suggestions for the document id.
	ListSuggestions(ctx context.Context, documentID string) ([]models.Suggestion, error)
}
