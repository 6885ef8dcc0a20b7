package handler

import (
	"io"
	"net/http"
	"time"

	"casefile/internal/domain/services"
	"casefile/internal/httputil"
	"casefile/internal/policy"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService    services.DocumentService
	uploadService services.UploadService
	registry      *policy.Registry
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	docService services.DocumentService,
	uploadService services.UploadService,
	registry *policy.Registry,
) *DocumentHandler {
	return &DocumentHandler{
		docService:    docService,
		uploadService: uploadService,
		registry:      registry,
	}
}

// SaveVersion creates a new document version
// POST /api/documents
// An id in the body appends a version to that document; no id starts a
// new one.
func (h *DocumentHandler) SaveVersion(w http.ResponseWriter, r *http.Request) {
	var req services.SaveDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = httputil.GetUserID(r)

	doc, err := h.docService.SaveVersion(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// Upload ingests a file: blob storage, text extraction, first version
// POST /api/documents/upload (multipart/form-data: file, optional title)
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.registry.MaxUploadBytes()
	// Leave headroom for the multipart envelope around the file part
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(64<<10))

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	result, err := h.uploadService.Upload(r.Context(), &services.UploadRequest{
		UserID:      httputil.GetUserID(r),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		Title:       r.FormValue("title"),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

// ListDocuments returns the caller's documents, newest first
// GET /api/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docService.ListByUser(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, docs)
}

// GetDocument returns the latest version of a document
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	doc, err := h.docService.GetLatest(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// GetVersions returns every version of a document, oldest first
// GET /api/documents/{id}/versions
func (h *DocumentHandler) GetVersions(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	versions, err := h.docService.GetAllVersions(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, versions)
}

// truncateDocumentRequest carries the rollback point
type truncateDocumentRequest struct {
	After time.Time `json:"after"`
}

// TruncateVersions deletes versions created strictly after the timestamp
// POST /api/documents/{id}/truncate
func (h *DocumentHandler) TruncateVersions(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	var req truncateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.After.IsZero() {
		httputil.RespondError(w, http.StatusBadRequest, "after timestamp is required")
		return
	}

	if !h.ownsDocument(w, r, id) {
		return
	}

	if err := h.docService.TruncateAfter(r.Context(), id, req.After); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteDocument removes a document and all derived content
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	if !h.ownsDocument(w, r, id) {
		return
	}

	if err := h.docService.DeleteDocument(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// setAnalyzedRequest flips the analysis flag
type setAnalyzedRequest struct {
	IsAnalyzed bool `json:"is_analyzed"`
}

// SetAnalyzed marks a document as analyzed (or not)
// PATCH /api/documents/{id}/analysis
func (h *DocumentHandler) SetAnalyzed(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	var req setAnalyzedRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.docService.SetAnalyzed(r.Context(), id, req.IsAnalyzed); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint
// GET /health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}

// ownsDocument verifies the caller owns the document before a mutating
// operation. Writes the error response itself and reports whether the
// handler may continue.
func (h *DocumentHandler) ownsDocument(w http.ResponseWriter, r *http.Request, id string) bool {
	doc, err := h.docService.GetLatest(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return false
	}
	if doc.UserID != httputil.GetUserID(r) {
		// Hide the document's existence from non-owners
		httputil.RespondError(w, http.StatusNotFound, "document not found")
		return false
	}
	return true
}
