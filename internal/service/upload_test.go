package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"casefile/internal/domain"
	"casefile/internal/domain/models"
	"casefile/internal/domain/services"
	"casefile/internal/extraction"
	"casefile/internal/policy"
)

type fakeBlobStore struct {
	objects map[string][]byte
	deleted []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (s *fakeBlobStore) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	s.objects[name] = data
	return "https://blobs.test/bucket/" + name, nil
}

func (s *fakeBlobStore) Delete(_ context.Context, blobURL string) error {
	name := strings.TrimPrefix(blobURL, "https://blobs.test/bucket/")
	delete(s.objects, name)
	s.deleted = append(s.deleted, name)
	return nil
}

func (s *fakeBlobStore) List(_ context.Context, prefix string, _ int) ([]services.ObjectInfo, error) {
	infos := make([]services.ObjectInfo, 0)
	for name, data := range s.objects {
		if strings.HasPrefix(name, prefix) {
			infos = append(infos, services.ObjectInfo{
				URL:        "https://blobs.test/bucket/" + name,
				Pathname:   name,
				Size:       int64(len(data)),
				UploadedAt: time.Now(),
			})
		}
	}
	return infos, nil
}

type failingParser struct{}

func (failingParser) Parse(context.Context, []byte, extraction.Options) (*extraction.ParseResult, error) {
	return nil, fmt.Errorf("corrupt stream")
}

func newUploadFixture(t *testing.T) (services.UploadService, *fakeBlobStore, *fakeDocumentRepo, *extraction.Gateway, *policy.Registry) {
	t.Helper()

	registry, err := policy.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	blobStore := newFakeBlobStore()
	gateway := extraction.NewGateway(discardLogger())

	docRepo := &fakeDocumentRepo{}
	docService := NewDocumentService(docRepo, &fakeSectionRepo{}, &fakeAnnotationRepo{}, &fakeSuggestionRepo{}, &fakeTxManager{}, discardLogger())

	svc := NewUploadService(registry, blobStore, gateway, docService, discardLogger())
	return svc, blobStore, docRepo, gateway, registry
}

func TestUploadTextFile(t *testing.T) {
	svc, blobStore, docRepo, _, _ := newUploadFixture(t)

	result, err := svc.Upload(context.Background(), &services.UploadRequest{
		UserID:      "user-1",
		FileName:    "notes.txt",
		ContentType: "text/plain; charset=utf-8",
		Data:        []byte("three words here"),
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if result.BlobURL == "" {
		t.Error("expected a blob URL")
	}
	if len(blobStore.objects) != 1 {
		t.Errorf("stored %d blobs, want 1", len(blobStore.objects))
	}

	doc := result.Document
	if doc.Title != "notes.txt" {
		t.Errorf("Title = %q, want file name fallback", doc.Title)
	}
	if doc.FileType != models.FileTypeTXT {
		t.Errorf("FileType = %q, want txt", doc.FileType)
	}
	if doc.Content != "three words here" {
		t.Errorf("Content = %q", doc.Content)
	}
	if doc.WordCount == nil || *doc.WordCount != 3 {
		t.Errorf("WordCount = %v, want 3", doc.WordCount)
	}
	if len(docRepo.versions) != 1 {
		t.Errorf("stored %d document versions, want 1", len(docRepo.versions))
	}
}

func TestUploadRejectsOversizeFile(t *testing.T) {
	svc, blobStore, docRepo, _, registry := newUploadFixture(t)
	registry.SetMaxUploadBytes(8)

	_, err := svc.Upload(context.Background(), &services.UploadRequest{
		UserID:      "user-1",
		FileName:    "big.txt",
		ContentType: "text/plain",
		Data:        []byte("way past the eight byte cap"),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	if len(blobStore.objects) != 0 || len(docRepo.versions) != 0 {
		t.Error("rejected upload left state behind")
	}
}

func TestUploadRejectsDisallowedContentType(t *testing.T) {
	svc, blobStore, docRepo, _, _ := newUploadFixture(t)

	_, err := svc.Upload(context.Background(), &services.UploadRequest{
		UserID:      "user-1",
		FileName:    "movie.mp4",
		ContentType: "video/mp4",
		Data:        []byte{0, 1, 2, 3},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	if len(blobStore.objects) != 0 || len(docRepo.versions) != 0 {
		t.Error("rejected upload left state behind")
	}
}

func TestUploadCleansUpBlobOnExtractionFailure(t *testing.T) {
	svc, blobStore, docRepo, gateway, _ := newUploadFixture(t)
	gateway.Register(models.FileTypeTXT, failingParser{})

	_, err := svc.Upload(context.Background(), &services.UploadRequest{
		UserID:      "user-1",
		FileName:    "broken.txt",
		ContentType: "text/plain",
		Data:        []byte("unparseable"),
	})
	if !errors.Is(err, extraction.ErrExtractionFailed) {
		t.Fatalf("error = %v, want ErrExtractionFailed", err)
	}

	if len(blobStore.objects) != 0 {
		t.Errorf("blob not cleaned up after failed extraction: %v", blobStore.objects)
	}
	if len(blobStore.deleted) != 1 {
		t.Errorf("expected one blob deletion, got %d", len(blobStore.deleted))
	}
	if len(docRepo.versions) != 0 {
		t.Errorf("failed extraction stored %d document versions", len(docRepo.versions))
	}
}

func TestUploadCustomTitle(t *testing.T) {
	svc, _, _, _, _ := newUploadFixture(t)

	result, err := svc.Upload(context.Background(), &services.UploadRequest{
		UserID:      "user-1",
		FileName:    "scan-0042.txt",
		ContentType: "text/plain",
		Data:        []byte("lease body"),
		Title:       "Office Lease 2026",
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if result.Document.Title != "Office Lease 2026" {
		t.Errorf("Title = %q, want the provided title", result.Document.Title)
	}
}
