package services

import (
	"context"

	"casefile/internal/domain/models"
)

// UploadService runs the ingest pipeline: store the raw file in blob
// storage, extract normalized text and metadata, and persist the first
// document version.
type UploadService interface {
	Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error)
}

// UploadRequest carries one uploaded file.
type UploadRequest struct {
	UserID      string
	FileName    string
	ContentType string
	Data        []byte
	Title       string // Optional; defaults to the file name
}

// UploadResult is the stored document version plus the blob location.
type UploadResult struct {
	Document *models.Document `json:"document"`
	BlobURL  string           `json:"blob_url"`
}
