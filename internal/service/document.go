package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"casefile/internal/config"
	"casefile/internal/domain"
	"casefile/internal/domain/models"
	"casefile/internal/domain/repositories"
	"casefile/internal/domain/services"
)

// documentService implements the DocumentService interface. All history
// rewrites run as ordered cascades inside a transaction: dependents are
// always deleted before their anchor rows, so even a partial cascade
// never strands a suggestion, section or annotation pointing at a
// missing version.
type documentService struct {
	docRepo        repositories.DocumentRepository
	sectionRepo    repositories.SectionRepository
	annotationRepo repositories.AnnotationRepository
	suggestionRepo repositories.SuggestionRepository
	txManager      repositories.TransactionManager
	logger         *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	sectionRepo repositories.SectionRepository,
	annotationRepo repositories.AnnotationRepository,
	suggestionRepo repositories.SuggestionRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:        docRepo,
		sectionRepo:    sectionRepo,
		annotationRepo: annotationRepo,
		suggestionRepo: suggestionRepo,
		txManager:      txManager,
		logger:         logger,
	}
}

// SaveVersion inserts a new document version row. An empty req.ID starts
// a fresh document; a populated one appends a version to it.
func (s *documentService) SaveVersion(ctx context.Context, req *services.SaveDocumentRequest) (*models.Document, error) {
	if err := s.validateSaveRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}

	kind := req.Kind
	if kind == "" {
		kind = models.KindText
	}

	doc := &models.Document{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		UserID:    req.UserID,
		Title:     req.Title,
		Kind:      kind,
		Content:   req.Content,
		FileName:  req.FileName,
		FileType:  req.FileType,
		FileSize:  req.FileSize,
		BlobURL:   req.BlobURL,
		PageCount: req.PageCount,
		WordCount: req.WordCount,
	}

	if err := s.docRepo.CreateVersion(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Debug("document version saved",
		"document_id", doc.ID,
		"created_at", doc.CreatedAt,
		"kind", doc.Kind,
	)

	return doc, nil
}

// GetLatest returns the most recent version of the document
func (s *documentService) GetLatest(ctx context.Context, id string) (*models.Document, error) {
	return s.docRepo.GetLatest(ctx, id)
}

// GetAllVersions returns every version, oldest first
func (s *documentService) GetAllVersions(ctx context.Context, id string) ([]models.Document, error) {
	return s.docRepo.GetAllVersions(ctx, id)
}

// ListByUser returns the user's documents, newest first
func (s *documentService) ListByUser(ctx context.Context, userID string) ([]models.Document, error) {
	return s.docRepo.ListByUser(ctx, userID)
}

// SetAnalyzed flips the is_analyzed flag
func (s *documentService) SetAnalyzed(ctx context.Context, id string, analyzed bool) error {
	return s.docRepo.SetAnalyzed(ctx, id, analyzed)
}

// TruncateAfter removes versions created strictly after the timestamp,
// suggestions first so no suggestion ever references a deleted version.
// Re-running with the same arguments deletes nothing and returns nil.
func (s *documentService) TruncateAfter(ctx context.Context, id string, after time.Time) error {
	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		suggestions, err := s.suggestionRepo.DeleteForVersionsAfter(txCtx, id, after)
		if err != nil {
			return fmt.Errorf("truncate document %s: %w", id, err)
		}

		versions, err := s.docRepo.DeleteVersionsAfter(txCtx, id, after)
		if err != nil {
			return fmt.Errorf("truncate document %s: %w", id, err)
		}

		if versions > 0 || suggestions > 0 {
			s.logger.Info("document history truncated",
				"document_id", id,
				"after", after,
				"versions_deleted", versions,
				"suggestions_deleted", suggestions,
			)
		}

		return nil
	})
}

// DeleteDocument removes the document and all derived rows. Cascade
// order is sections, annotations, suggestions, then the version rows;
// each delete is idempotent so an aborted cascade can be retried.
func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.sectionRepo.DeleteByDocument(txCtx, id); err != nil {
			return fmt.Errorf("delete document %s: %w", id, err)
		}
		if err := s.annotationRepo.DeleteByDocument(txCtx, id); err != nil {
			return fmt.Errorf("delete document %s: %w", id, err)
		}
		if err := s.suggestionRepo.DeleteByDocument(txCtx, id); err != nil {
			return fmt.Errorf("delete document %s: %w", id, err)
		}
		if err := s.docRepo.DeleteByID(txCtx, id); err != nil {
			return fmt.Errorf("delete document %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("document deleted", "document_id", id)
	return nil
}

// Validation methods

func (s *documentService) validateSaveRequest(req *services.SaveDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxDocumentTitleLength),
		),
		validation.Field(&req.Kind,
			validation.In(models.KindText, models.KindCode, models.KindImage, models.KindSheet, models.KindLegal),
		),
		validation.Field(&req.FileType,
			validation.In(models.FileTypePDF, models.FileTypeDOCX, models.FileTypeTXT, models.FileTypeMD),
		),
	)
}
