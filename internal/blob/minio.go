// Package blob implements the object-storage collaborator on MinIO (or
// any S3-compatible endpoint). The rest of the system treats the
// returned URLs as opaque; only this package knows how to map a URL back
// to a bucket key for deletion.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"casefile/internal/domain/services"
)

// Config holds the connection settings for the object store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStore implements the BlobStore interface against one bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewMinioStore connects to the endpoint and ensures the bucket exists.
func NewMinioStore(ctx context.Context, cfg Config, logger *slog.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info("created blob bucket", "bucket", cfg.Bucket)
	}

	return &MinioStore{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// Put stores the bytes under the given name and returns the object URL.
func (s *MinioStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", name, err)
	}

	return s.objectURL(name), nil
}

// Delete removes the blob identified by a URL a previous Put returned.
func (s *MinioStore) Delete(ctx context.Context, blobURL string) error {
	key, err := s.objectKey(blobURL)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	return nil
}

// List returns stored blobs under the prefix, capped at limit.
func (s *MinioStore) List(ctx context.Context, prefix string, limit int) ([]services.ObjectInfo, error) {
	if limit <= 0 {
		limit = 100
	}

	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	infos := make([]services.ObjectInfo, 0, limit)
	for object := range objects {
		if object.Err != nil {
			return nil, fmt.Errorf("list objects: %w", object.Err)
		}

		infos = append(infos, services.ObjectInfo{
			URL:        s.objectURL(object.Key),
			Pathname:   object.Key,
			Size:       object.Size,
			UploadedAt: object.LastModified,
		})
		if len(infos) >= limit {
			break
		}
	}

	return infos, nil
}

// objectURL builds the public URL for an object key.
func (s *MinioStore) objectURL(key string) string {
	endpoint := s.client.EndpointURL()
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(endpoint.String(), "/"), s.bucket, key)
}

// objectKey resolves a URL produced by objectURL back to its object key.
func (s *MinioStore) objectKey(blobURL string) (string, error) {
	parsed, err := url.Parse(blobURL)
	if err != nil {
		return "", fmt.Errorf("parse blob url %s: %w", blobURL, err)
	}

	path := strings.TrimPrefix(parsed.Path, "/")
	key, found := strings.CutPrefix(path, s.bucket+"/")
	if !found || key == "" {
		return "", fmt.Errorf("blob url %s does not reference bucket %s", blobURL, s.bucket)
	}

	return key, nil
}
