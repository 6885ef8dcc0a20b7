package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"casefile/internal/domain"
	"casefile/internal/domain/models"
	"casefile/internal/domain/services"
)

func newDerivedFixture() (services.DerivedContentService, *fakeDocumentRepo, *fakeSectionRepo, *fakeAnnotationRepo, *fakeSuggestionRepo) {
	docRepo := &fakeDocumentRepo{}
	sectionRepo := &fakeSectionRepo{}
	annotationRepo := &fakeAnnotationRepo{}
	suggestionRepo := &fakeSuggestionRepo{}
	svc := NewDerivedContentService(sectionRepo, annotationRepo, suggestionRepo, docRepo, discardLogger())
	return svc, docRepo, sectionRepo, annotationRepo, suggestionRepo
}

func seedDocument(docRepo *fakeDocumentRepo, content string) {
	docRepo.versions = append(docRepo.versions, models.Document{
		ID:        "doc-1",
		CreatedAt: time.Now().UTC(),
		UserID:    "user-1",
		Title:     "Contract",
		Content:   content,
	})
}

func TestSaveSectionsRejectsInvalidRange(t *testing.T) {
	svc, docRepo, sectionRepo, _, _ := newDerivedFixture()
	seedDocument(docRepo, "0123456789")

	err := svc.SaveSections(context.Background(), []models.DocumentSection{
		{DocumentID: "doc-1", Title: "ok", StartIndex: 0, EndIndex: 5},
		{DocumentID: "doc-1", Title: "inverted", StartIndex: 10, EndIndex: 5},
	})
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("error = %v, want ErrInvalidRange", err)
	}

	// The whole batch is rejected; nothing is written
	if len(sectionRepo.sections) != 0 {
		t.Errorf("invalid batch wrote %d sections", len(sectionRepo.sections))
	}
}

func TestSaveSectionsRejectsRangePastDocumentEnd(t *testing.T) {
	svc, docRepo, sectionRepo, _, _ := newDerivedFixture()
	seedDocument(docRepo, "short")

	err := svc.SaveSections(context.Background(), []models.DocumentSection{
		{DocumentID: "doc-1", Title: "too far", StartIndex: 0, EndIndex: 100},
	})
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("error = %v, want ErrInvalidRange", err)
	}
	if len(sectionRepo.sections) != 0 {
		t.Errorf("invalid batch wrote %d sections", len(sectionRepo.sections))
	}
}

func TestSaveSectionsAssignsIDs(t *testing.T) {
	svc, docRepo, sectionRepo, _, _ := newDerivedFixture()
	seedDocument(docRepo, "0123456789")

	sections := []models.DocumentSection{
		{DocumentID: "doc-1", Title: "Clause 1", Level: 1, StartIndex: 0, EndIndex: 5},
		{DocumentID: "doc-1", Title: "Clause 2", Level: 1, StartIndex: 5, EndIndex: 10},
	}
	if err := svc.SaveSections(context.Background(), sections); err != nil {
		t.Fatalf("SaveSections() error = %v", err)
	}

	if len(sectionRepo.sections) != 2 {
		t.Fatalf("stored %d sections, want 2", len(sectionRepo.sections))
	}
	for _, s := range sectionRepo.sections {
		if s.ID == "" || s.CreatedAt.IsZero() {
			t.Errorf("section %q missing generated id or timestamp", s.Title)
		}
	}
}

func TestSaveAnnotationsValidatesAgainstLatestVersion(t *testing.T) {
	svc, docRepo, _, annotationRepo, _ := newDerivedFixture()
	seedDocument(docRepo, "0123456789")

	comment := "ambiguous term"
	severity := models.SeverityHigh
	err := svc.SaveAnnotations(context.Background(), []models.DocumentAnnotation{
		{
			DocumentID: "doc-1",
			StartIndex: 2,
			EndIndex:   8,
			Text:       "234567",
			Type:       models.AnnotationIssue,
			Comment:    &comment,
			Severity:   &severity,
		},
	})
	if err != nil {
		t.Fatalf("SaveAnnotations() error = %v", err)
	}
	if len(annotationRepo.annotations) != 1 {
		t.Fatalf("stored %d annotations, want 1", len(annotationRepo.annotations))
	}

	err = svc.SaveAnnotations(context.Background(), []models.DocumentAnnotation{
		{DocumentID: "doc-1", StartIndex: 5, EndIndex: 50, Type: models.AnnotationHighlight},
	})
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Errorf("out-of-bounds annotation error = %v, want ErrInvalidRange", err)
	}
	if len(annotationRepo.annotations) != 1 {
		t.Errorf("invalid batch changed stored annotations to %d", len(annotationRepo.annotations))
	}
}

func TestSaveAnnotationsUnknownDocumentChecksRelativeBoundsOnly(t *testing.T) {
	svc, _, _, annotationRepo, _ := newDerivedFixture()

	// No document persisted yet: upper bound is unknowable, ordering still holds
	err := svc.SaveAnnotations(context.Background(), []models.DocumentAnnotation{
		{DocumentID: "doc-x", StartIndex: 0, EndIndex: 500, Type: models.AnnotationComment},
	})
	if err != nil {
		t.Fatalf("SaveAnnotations() error = %v", err)
	}
	if len(annotationRepo.annotations) != 1 {
		t.Fatalf("stored %d annotations, want 1", len(annotationRepo.annotations))
	}

	err = svc.SaveAnnotations(context.Background(), []models.DocumentAnnotation{
		{DocumentID: "doc-x", StartIndex: 9, EndIndex: 3, Type: models.AnnotationComment},
	})
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Errorf("inverted range error = %v, want ErrInvalidRange", err)
	}
}

func TestResolveAnnotation(t *testing.T) {
	svc, _, _, annotationRepo, _ := newDerivedFixture()
	annotationRepo.annotations = []models.DocumentAnnotation{
		{ID: "ann-1", DocumentID: "doc-1", StartIndex: 0, EndIndex: 3, Type: models.AnnotationIssue},
	}

	if err := svc.ResolveAnnotation(context.Background(), "ann-1", true); err != nil {
		t.Fatalf("ResolveAnnotation() error = %v", err)
	}
	if !annotationRepo.annotations[0].IsResolved {
		t.Error("annotation not marked resolved")
	}

	if err := svc.ResolveAnnotation(context.Background(), "ghost", true); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestSaveSuggestionsRequiresVersionKey(t *testing.T) {
	svc, _, _, _, suggestionRepo := newDerivedFixture()

	err := svc.SaveSuggestions(context.Background(), []models.Suggestion{
		{DocumentID: "doc-1"}, // missing DocumentCreatedAt
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	if len(suggestionRepo.suggestions) != 0 {
		t.Errorf("invalid batch wrote %d suggestions", len(suggestionRepo.suggestions))
	}

	err = svc.SaveSuggestions(context.Background(), []models.Suggestion{
		{
			DocumentID:        "doc-1",
			DocumentCreatedAt: time.Now().UTC(),
			UserID:            "user-1",
			OriginalText:      "heretofore",
			SuggestedText:     "from now on",
		},
	})
	if err != nil {
		t.Fatalf("SaveSuggestions() error = %v", err)
	}
	if len(suggestionRepo.suggestions) != 1 || suggestionRepo.suggestions[0].ID == "" {
		t.Errorf("suggestion not stored with generated id: %+v", suggestionRepo.suggestions)
	}
}
