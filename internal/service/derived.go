package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"casefile/internal/domain"
	"casefile/internal/domain/models"
	"casefile/internal/domain/repositories"
	"casefile/internal/domain/services"
)

// derivedContentService implements the DerivedContentService interface.
// Index bounds are checked here, before any row is written, rather than
// trusting callers or the schema to police them: a single bad range
// rejects the whole batch.
type derivedContentService struct {
	sectionRepo    repositories.SectionRepository
	annotationRepo repositories.AnnotationRepository
	suggestionRepo repositories.SuggestionRepository
	docRepo        repositories.DocumentRepository
	logger         *slog.Logger
}

// NewDerivedContentService creates a new derived content service
func NewDerivedContentService(
	sectionRepo repositories.SectionRepository,
	annotationRepo repositories.AnnotationRepository,
	suggestionRepo repositories.SuggestionRepository,
	docRepo repositories.DocumentRepository,
	logger *slog.Logger,
) services.DerivedContentService {
	return &derivedContentService{
		sectionRepo:    sectionRepo,
		annotationRepo: annotationRepo,
		suggestionRepo: suggestionRepo,
		docRepo:        docRepo,
		logger:         logger,
	}
}

// SaveSections bulk-inserts sections after validating every range
func (s *derivedContentService) SaveSections(ctx context.Context, sections []models.DocumentSection) error {
	if len(sections) == 0 {
		return nil
	}

	lengths, err := s.documentLengths(ctx, sectionDocumentIDs(sections))
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for i := range sections {
		section := &sections[i]
		if err := section.Range().Validate(lengths[section.DocumentID]); err != nil {
			return &domain.InvalidRangeError{
				Message: fmt.Sprintf("section for document %s: %v", section.DocumentID, err),
			}
		}
		if section.ID == "" {
			section.ID = uuid.New().String()
		}
		if section.CreatedAt.IsZero() {
			section.CreatedAt = now
		}
	}

	return s.sectionRepo.SaveSections(ctx, sections)
}

// SaveAnnotations bulk-inserts annotations under the same range rules
func (s *derivedContentService) SaveAnnotations(ctx context.Context, annotations []models.DocumentAnnotation) error {
	if len(annotations) == 0 {
		return nil
	}

	ids := make([]string, 0, len(annotations))
	for i := range annotations {
		ids = append(ids, annotations[i].DocumentID)
	}
	lengths, err := s.documentLengths(ctx, ids)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for i := range annotations {
		annotation := &annotations[i]
		if err := annotation.Range().Validate(lengths[annotation.DocumentID]); err != nil {
			return &domain.InvalidRangeError{
				Message: fmt.Sprintf("annotation for document %s: %v", annotation.DocumentID, err),
			}
		}
		if annotation.ID == "" {
			annotation.ID = uuid.New().String()
		}
		if annotation.CreatedAt.IsZero() {
			annotation.CreatedAt = now
		}
	}

	return s.annotationRepo.SaveAnnotations(ctx, annotations)
}

// ListSections returns the document's sections, start_index ascending
func (s *derivedContentService) ListSections(ctx context.Context, documentID string) ([]models.DocumentSection, error) {
	return s.sectionRepo.ListByDocument(ctx, documentID)
}

// ListAnnotations returns the document's annotations, start_index ascending
func (s *derivedContentService) ListAnnotations(ctx context.Context, documentID string) ([]models.DocumentAnnotation, error) {
	return s.annotationRepo.ListByDocument(ctx, documentID)
}

// ResolveAnnotation sets is_resolved, the sole allowed annotation update
func (s *derivedContentService) ResolveAnnotation(ctx context.Context, id string, resolved bool) error {
	return s.annotationRepo.Resolve(ctx, id, resolved)
}

// SaveSuggestions bulk-inserts suggestions tied to document versions
func (s *derivedContentService) SaveSuggestions(ctx context.Context, suggestions []models.Suggestion) error {
	if len(suggestions) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := range suggestions {
		suggestion := &suggestions[i]
		if suggestion.DocumentID == "" || suggestion.DocumentCreatedAt.IsZero() {
			return fmt.Errorf("%w: suggestion requires a document version key", domain.ErrValidation)
		}
		if suggestion.ID == "" {
			suggestion.ID = uuid.New().String()
		}
		if suggestion.CreatedAt.IsZero() {
			suggestion.CreatedAt = now
		}
	}

	return s.suggestionRepo.SaveSuggestions(ctx, suggestions)
}

// ListSuggestions returns suggestions for the document
func (s *derivedContentService) ListSuggestions(ctx context.Context, documentID string) ([]models.Suggestion, error) {
	return s.suggestionRepo.ListByDocument(ctx, documentID)
}

// documentLengths resolves the latest content length per document id.
// Unknown documents map to -1 so only relative bounds are checked; the
// document may legitimately not be persisted yet when sections arrive.
func (s *derivedContentService) documentLengths(ctx context.Context, ids []string) (map[string]int, error) {
	lengths := make(map[string]int)
	for _, id := range ids {
		if _, seen := lengths[id]; seen {
			continue
		}

		doc, err := s.docRepo.GetLatest(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				lengths[id] = -1
				continue
			}
			return nil, err
		}
		lengths[id] = len(doc.Content)
	}
	return lengths, nil
}

func sectionDocumentIDs(sections []models.DocumentSection) []string {
	ids := make([]string, 0, len(sections))
	for i := range sections {
		ids = append(ids, sections[i].DocumentID)
	}
	return ids
}
