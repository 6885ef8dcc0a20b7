package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"casefile/internal/domain"
	"casefile/internal/domain/models"
	"casefile/internal/domain/services"
	"casefile/internal/extraction"
	"casefile/internal/policy"
)

// uploadService runs the ingest pipeline: policy checks, blob storage,
// text extraction, then the first document version. The blob write comes
// before extraction so the original bytes survive even when parsing
// fails; a failed extraction removes the orphaned blob again.
type uploadService struct {
	registry  *policy.Registry
	blobStore services.BlobStore
	gateway   *extraction.Gateway
	documents services.DocumentService
	logger    *slog.Logger
}

// NewUploadService creates a new upload service
func NewUploadService(
	registry *policy.Registry,
	blobStore services.BlobStore,
	gateway *extraction.Gateway,
	documents services.DocumentService,
	logger *slog.Logger,
) services.UploadService {
	return &uploadService{
		registry:  registry,
		blobStore: blobStore,
		gateway:   gateway,
		documents: documents,
		logger:    logger,
	}
}

// Upload validates the file against the upload policy, stores the raw
// bytes, extracts text, and persists the first document version.
func (s *uploadService) Upload(ctx context.Context, req *services.UploadRequest) (*services.UploadResult, error) {
	if req.FileName == "" {
		return nil, fmt.Errorf("%w: file name is required", domain.ErrValidation)
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", domain.ErrValidation)
	}
	if max := s.registry.MaxUploadBytes(); int64(len(req.Data)) > max {
		return nil, fmt.Errorf("%w: file exceeds the %d byte limit", domain.ErrValidation, max)
	}
	if !s.registry.IsAllowedMIME(req.ContentType) {
		return nil, fmt.Errorf("%w: content type %q is not allowed (accepted: %v)",
			domain.ErrValidation, req.ContentType, s.registry.AllowedMIMETypes())
	}

	// Prefix with a fresh id so two users uploading contract.pdf never
	// collide in the bucket.
	storageName := fmt.Sprintf("%s-%s", uuid.New().String(), req.FileName)

	blobURL, err := s.blobStore.Put(ctx, storageName, req.Data, req.ContentType)
	if err != nil {
		return nil, fmt.Errorf("store upload %s: %w", req.FileName, err)
	}

	content, err := s.gateway.Extract(ctx, req.Data, req.FileName, extraction.Options{
		ExtractPages:       true,
		PreserveFormatting: true,
	})
	if err != nil {
		if delErr := s.blobStore.Delete(ctx, blobURL); delErr != nil {
			s.logger.Warn("orphaned blob after failed extraction",
				"blob_url", blobURL,
				"error", delErr,
			)
		}
		return nil, err
	}

	title := req.Title
	if title == "" {
		title = req.FileName
	}

	doc, err := s.documents.SaveVersion(ctx, &services.SaveDocumentRequest{
		UserID:    req.UserID,
		Title:     title,
		Kind:      models.KindText,
		Content:   content.Text,
		FileName:  req.FileName,
		FileType:  content.Metadata.FileType,
		FileSize:  content.Metadata.FileSize,
		BlobURL:   blobURL,
		PageCount: content.Metadata.PageCount,
		WordCount: content.Metadata.WordCount,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document uploaded",
		"document_id", doc.ID,
		"file_name", req.FileName,
		"file_type", content.Metadata.FileType,
		"file_size", content.Metadata.FileSize,
	)

	return &services.UploadResult{Document: doc, BlobURL: blobURL}, nil
}
