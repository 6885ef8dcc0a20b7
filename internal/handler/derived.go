package handler

import (
	"net/http"

	"casefile/internal/domain/models"
	"casefile/internal/domain/services"
	"casefile/internal/httputil"
)

// DerivedContentHandler handles sections, annotations and suggestions
type DerivedContentHandler struct {
	derivedService services.DerivedContentService
}

// NewDerivedContentHandler creates a new derived content handler
func NewDerivedContentHandler(derivedService services.DerivedContentService) *DerivedContentHandler {
	return &DerivedContentHandler{derivedService: derivedService}
}

// SaveSections stores the analysis outline for a document
// POST /api/documents/{id}/sections
// The whole batch is rejected if any range is invalid.
func (h *DerivedContentHandler) SaveSections(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")
	if documentID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	var sections []models.DocumentSection
	if err := httputil.ParseJSON(w, r, &sections); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for i := range sections {
		sections[i].DocumentID = documentID
	}

	if err := h.derivedService.SaveSections(r.Context(), sections); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, sections)
}

// ListSections returns a document's sections ordered by start index
// GET /api/documents/{id}/sections
func (h *DerivedContentHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")
	if documentID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	sections, err := h.derivedService.ListSections(r.Context(), documentID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, sections)
}

// SaveAnnotations stores analysis annotations for a document
// POST /api/documents/{id}/annotations
func (h *DerivedContentHandler) SaveAnnotations(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")
	if documentID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	var annotations []models.DocumentAnnotation
	if err := httputil.ParseJSON(w, r, &annotations); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for i := range annotations {
		annotations[i].DocumentID = documentID
	}

	if err := h.derivedService.SaveAnnotations(r.Context(), annotations); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, annotations)
}

// ListAnnotations returns a document's annotations ordered by start index
// GET /api/documents/{id}/annotations
func (h *DerivedContentHandler) ListAnnotations(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")
	if documentID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	annotations, err := h.derivedService.ListAnnotations(r.Context(), documentID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, annotations)
}

// resolveAnnotationRequest flips the resolution flag
type resolveAnnotationRequest struct {
	IsResolved bool `json:"is_resolved"`
}

// ResolveAnnotation marks an annotation resolved or unresolved
// PATCH /api/annotations/{id}/resolution
func (h *DerivedContentHandler) ResolveAnnotation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "annotation ID is required")
		return
	}

	var req resolveAnnotationRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.derivedService.ResolveAnnotation(r.Context(), id, req.IsResolved); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SaveSuggestions stores edit suggestions against a document version
// POST /api/documents/{id}/suggestions
func (h *DerivedContentHandler) SaveSuggestions(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")
	if documentID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	var suggestions []models.Suggestion
	if err := httputil.ParseJSON(w, r, &suggestions); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	userID := httputil.GetUserID(r)
	for i := range suggestions {
		suggestions[i].DocumentID = documentID
		suggestions[i].UserID = userID
	}

	if err := h.derivedService.SaveSuggestions(r.Context(), suggestions); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, suggestions)
}

// ListSuggestions returns suggestions for a document
// GET /api/documents/{id}/suggestions
func (h *DerivedContentHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")
	if documentID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	suggestions, err := h.derivedService.ListSuggestions(r.Context(), documentID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, suggestions)
}
