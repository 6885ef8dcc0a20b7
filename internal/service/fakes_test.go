package service

import (
	"context"
	"sort"
	"time"

	"casefile/internal/domain"
	"casefile/internal/domain/models"
	"casefile/internal/domain/repositories"
)

// In-memory repository fakes. They mirror the ordering and idempotency
// contracts of the postgres implementations so service-level cascade and
// truncation behavior can be exercised without a database.

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	m.calls++
	return fn(ctx)
}

type fakeDocumentRepo struct {
	versions []models.Document
}

func (r *fakeDocumentRepo) CreateVersion(_ context.Context, doc *models.Document) error {
	r.versions = append(r.versions, *doc)
	return nil
}

func (r *fakeDocumentRepo) GetLatest(_ context.Context, id string) (*models.Document, error) {
	var latest *models.Document
	for i := range r.versions {
		v := &r.versions[i]
		if v.ID != id {
			continue
		}
		if latest == nil || v.CreatedAt.After(latest.CreatedAt) {
			latest = v
		}
	}
	if latest == nil {
		return nil, &domain.NotFoundError{Message: "document not found"}
	}
	out := *latest
	return &out, nil
}

func (r *fakeDocumentRepo) GetAllVersions(_ context.Context, id string) ([]models.Document, error) {
	out := make([]models.Document, 0)
	for _, v := range r.versions {
		if v.ID == id {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeDocumentRepo) ListByUser(_ context.Context, userID string) ([]models.Document, error) {
	out := make([]models.Document, 0)
	for _, v := range r.versions {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeDocumentRepo) SetAnalyzed(_ context.Context, id string, analyzed bool) error {
	found := false
	for i := range r.versions {
		if r.versions[i].ID == id {
			r.versions[i].IsAnalyzed = analyzed
			found = true
		}
	}
	if !found {
		return &domain.NotFoundError{Message: "document not found"}
	}
	return nil
}

func (r *fakeDocumentRepo) DeleteVersionsAfter(_ context.Context, id string, after time.Time) (int64, error) {
	kept := r.versions[:0]
	var deleted int64
	for _, v := range r.versions {
		if v.ID == id && v.CreatedAt.After(after) {
			deleted++
			continue
		}
		kept = append(kept, v)
	}
	r.versions = kept
	return deleted, nil
}

func (r *fakeDocumentRepo) DeleteByID(_ context.Context, id string) error {
	kept := r.versions[:0]
	for _, v := range r.versions {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	r.versions = kept
	return nil
}

type fakeSectionRepo struct {
	sections []models.DocumentSection
}

func (r *fakeSectionRepo) SaveSections(_ context.Context, sections []models.DocumentSection) error {
	r.sections = append(r.sections, sections...)
	return nil
}

func (r *fakeSectionRepo) ListByDocument(_ context.Context, documentID string) ([]models.DocumentSection, error) {
	out := make([]models.DocumentSection, 0)
	for _, s := range r.sections {
		if s.DocumentID == documentID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartIndex < out[j].StartIndex })
	return out, nil
}

func (r *fakeSectionRepo) DeleteByDocument(_ context.Context, documentID string) error {
	kept := r.sections[:0]
	for _, s := range r.sections {
		if s.DocumentID != documentID {
			kept = append(kept, s)
		}
	}
	r.sections = kept
	return nil
}

type fakeAnnotationRepo struct {
	annotations []models.DocumentAnnotation
}

func (r *fakeAnnotationRepo) SaveAnnotations(_ context.Context, annotations []models.DocumentAnnotation) error {
	r.annotations = append(r.annotations, annotations...)
	return nil
}

func (r *fakeAnnotationRepo) ListByDocument(_ context.Context, documentID string) ([]models.DocumentAnnotation, error) {
	out := make([]models.DocumentAnnotation, 0)
	for _, a := range r.annotations {
		if a.DocumentID == documentID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartIndex < out[j].StartIndex })
	return out, nil
}

func (r *fakeAnnotationRepo) Resolve(_ context.Context, id string, resolved bool) error {
	for i := range r.annotations {
		if r.annotations[i].ID == id {
			r.annotations[i].IsResolved = resolved
			return nil
		}
	}
	return &domain.NotFoundError{Message: "annotation not found"}
}

func (r *fakeAnnotationRepo) DeleteByDocument(_ context.Context, documentID string) error {
	kept := r.annotations[:0]
	for _, a := range r.annotations {
		if a.DocumentID != documentID {
			kept = append(kept, a)
		}
	}
	r.annotations = kept
	return nil
}

type fakeSuggestionRepo struct {
	suggestions []models.Suggestion
}

func (r *fakeSuggestionRepo) SaveSuggestions(_ context.Context, suggestions []models.Suggestion) error {
	r.suggestions = append(r.suggestions, suggestions...)
	return nil
}

func (r *fakeSuggestionRepo) ListByDocument(_ context.Context, documentID string) ([]models.Suggestion, error) {
	out := make([]models.Suggestion, 0)
	for _, s := range r.suggestions {
		if s.DocumentID == documentID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeSuggestionRepo) DeleteForVersionsAfter(_ context.Context, documentID string, after time.Time) (int64, error) {
	kept := r.suggestions[:0]
	var deleted int64
	for _, s := range r.suggestions {
		if s.DocumentID == documentID && s.DocumentCreatedAt.After(after) {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	r.suggestions = kept
	return deleted, nil
}

func (r *fakeSuggestionRepo) DeleteByDocument(_ context.Context, documentID string) error {
	kept := r.suggestions[:0]
	for _, s := range r.suggestions {
		if s.DocumentID != documentID {
			kept = append(kept, s)
		}
	}
	r.suggestions = kept
	return nil
}

type fakeChatRepo struct {
	chats []models.Chat
}

func (r *fakeChatRepo) Create(_ context.Context, chat *models.Chat) error {
	for _, c := range r.chats {
		if c.ID == chat.ID {
			return &domain.ConflictError{Message: "chat already exists", ResourceType: "chat", ResourceID: chat.ID}
		}
	}
	r.chats = append(r.chats, *chat)
	return nil
}

func (r *fakeChatRepo) Get(_ context.Context, chatID string) (*models.Chat, error) {
	for _, c := range r.chats {
		if c.ID == chatID {
			out := c
			return &out, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "chat not found"}
}

func (r *fakeChatRepo) ListByUser(_ context.Context, userID string) ([]models.Chat, error) {
	out := make([]models.Chat, 0)
	for _, c := range r.chats {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeChatRepo) UpdateVisibility(_ context.Context, chatID string, visibility models.ChatVisibility) error {
	for i := range r.chats {
		if r.chats[i].ID == chatID {
			r.chats[i].Visibility = visibility
			return nil
		}
	}
	return &domain.NotFoundError{Message: "chat not found"}
}

func (r *fakeChatRepo) Delete(_ context.Context, chatID string) error {
	kept := r.chats[:0]
	for _, c := range r.chats {
		if c.ID != chatID {
			kept = append(kept, c)
		}
	}
	r.chats = kept
	return nil
}

type fakeMessageRepo struct {
	messages []models.Message
}

func (r *fakeMessageRepo) SaveMessages(_ context.Context, messages []models.Message) error {
	r.messages = append(r.messages, messages...)
	return nil
}

func (r *fakeMessageRepo) ListByChat(_ context.Context, chatID string) ([]models.Message, error) {
	out := make([]models.Message, 0)
	for _, m := range r.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeMessageRepo) Get(_ context.Context, messageID string) (*models.Message, error) {
	for _, m := range r.messages {
		if m.ID == messageID {
			out := m
			return &out, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "message not found"}
}

func (r *fakeMessageRepo) ListIDsSince(_ context.Context, chatID string, since time.Time) ([]string, error) {
	ids := make([]string, 0)
	for _, m := range r.messages {
		if m.ChatID == chatID && !m.CreatedAt.Before(since) {
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

func (r *fakeMessageRepo) DeleteByIDs(_ context.Context, chatID string, messageIDs []string) (int64, error) {
	drop := make(map[string]bool, len(messageIDs))
	for _, id := range messageIDs {
		drop[id] = true
	}

	kept := r.messages[:0]
	var deleted int64
	for _, m := range r.messages {
		if m.ChatID == chatID && drop[m.ID] {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	r.messages = kept
	return deleted, nil
}

func (r *fakeMessageRepo) DeleteByChat(_ context.Context, chatID string) error {
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.ChatID != chatID {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

type fakeVoteRepo struct {
	votes []models.Vote
}

func (r *fakeVoteRepo) Upsert(_ context.Context, vote *models.Vote) error {
	for i := range r.votes {
		if r.votes[i].MessageID == vote.MessageID {
			r.votes[i].IsUpvoted = vote.IsUpvoted
			return nil
		}
	}
	r.votes = append(r.votes, *vote)
	return nil
}

func (r *fakeVoteRepo) ListByChat(_ context.Context, chatID string) ([]models.Vote, error) {
	out := make([]models.Vote, 0)
	for _, v := range r.votes {
		if v.ChatID == chatID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVoteRepo) DeleteByMessageIDs(_ context.Context, chatID string, messageIDs []string) (int64, error) {
	drop := make(map[string]bool, len(messageIDs))
	for _, id := range messageIDs {
		drop[id] = true
	}

	kept := r.votes[:0]
	var deleted int64
	for _, v := range r.votes {
		if v.ChatID == chatID && drop[v.MessageID] {
			deleted++
			continue
		}
		kept = append(kept, v)
	}
	r.votes = kept
	return deleted, nil
}

func (r *fakeVoteRepo) DeleteByChat(_ context.Context, chatID string) error {
	kept := r.votes[:0]
	for _, v := range r.votes {
		if v.ChatID != chatID {
			kept = append(kept, v)
		}
	}
	r.votes = kept
	return nil
}
