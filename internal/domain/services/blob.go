package services

import (
	"context"
	"time"
)

// ObjectInfo describes one stored blob.
type ObjectInfo struct {
	URL        string    `json:"url"`
	Pathname   string    `json:"pathname"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// BlobStore is the object storage collaborator. The core stores the URL
// returned by Put verbatim and never interprets its structure.
type BlobStore interface {
	// Put stores the bytes under the given name and returns a URL for it.
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)

	// Delete removes the blob a previous Put returned this URL for.
	Delete(ctx context.Context, url string) error

	// List returns stored blobs, optionally filtered by name prefix and
	// capped at limit.
	List(ctx context.Context, prefix string, limit int) ([]ObjectInfo, error)
}
