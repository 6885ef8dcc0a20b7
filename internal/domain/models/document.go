package models

import (
	"time"
)

// DocumentKind classifies what a document holds.
type DocumentKind string

const (
	KindText  DocumentKind = "text"
	KindCode  DocumentKind = "code"
	KindImage DocumentKind = "image"
	KindSheet DocumentKind = "sheet"
	KindLegal DocumentKind = "legal"
)

// FileType identifies the source file format of an uploaded document.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
	FileTypeTXT  FileType = "txt"
	FileTypeMD   FileType = "md"
)

// Document is one version snapshot of a user document. The version key is
// (ID, CreatedAt): an edit inserts a new row sharing ID with a later
// CreatedAt and never mutates an existing row. The only field updated in
// place is IsAnalyzed.
type Document struct {
	ID         string       `json:"id" db:"id"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	UserID     string       `json:"user_id" db:"user_id"`
	Title      string       `json:"title" db:"title"`
	Kind       DocumentKind `json:"kind" db:"kind"`
	Content    string       `json:"content" db:"content"`
	FileName   string       `json:"file_name,omitempty" db:"file_name"`
	FileType   FileType     `json:"file_type,omitempty" db:"file_type"`
	FileSize   int64        `json:"file_size,omitempty" db:"file_size"`
	BlobURL    string       `json:"blob_url,omitempty" db:"blob_url"`
	PageCount  *int         `json:"page_count,omitempty" db:"page_count"`
	WordCount  *int         `json:"word_count,omitempty" db:"word_count"`
	IsAnalyzed bool         `json:"is_analyzed" db:"is_analyzed"`
}

// Suggestion is an AI-generated edit proposal tied to exactly one document
// version via (DocumentID, DocumentCreatedAt). It must not outlive that
// version: truncating the version removes the suggestion first.
type Suggestion struct {
	ID                string    `json:"id" db:"id"`
	DocumentID        string    `json:"document_id" db:"document_id"`
	DocumentCreatedAt time.Time `json:"document_created_at" db:"document_created_at"`
	UserID            string    `json:"user_id" db:"user_id"`
	OriginalText      string    `json:"original_text" db:"original_text"`
	SuggestedText     string    `json:"suggested_text" db:"suggested_text"`
	Description       *string   `json:"description,omitempty" db:"description"`
	IsResolved        bool      `json:"is_resolved" db:"is_resolved"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}
