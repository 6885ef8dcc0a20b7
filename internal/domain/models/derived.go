package models

import (
	"fmt"
	"time"
)

// AnnotationType categorizes document annotations.
type AnnotationType string

const (
	AnnotationIssue      AnnotationType = "issue"
	AnnotationHighlight  AnnotationType = "highlight"
	AnnotationComment    AnnotationType = "comment"
	AnnotationSuggestion AnnotationType = "suggestion"
)

// AnnotationSeverity grades how serious an issue annotation is.
type AnnotationSeverity string

const (
	SeverityLow      AnnotationSeverity = "low"
	SeverityMedium   AnnotationSeverity = "medium"
	SeverityHigh     AnnotationSeverity = "high"
	SeverityCritical AnnotationSeverity = "critical"
)

// DocumentSection is one node of the structural tree overlaid on a
// document version's text. Children ranges are disjoint and fall within
// the parent's range. How the tree is built (heading detection etc.) is a
// pluggable structuring strategy; the store only enforces index bounds.
type DocumentSection struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	Title      string    `json:"title" db:"title"`
	Level      int       `json:"level" db:"level"`
	StartIndex int       `json:"start_index" db:"start_index"`
	EndIndex   int       `json:"end_index" db:"end_index"`
	ParentID   *string   `json:"parent_id,omitempty" db:"parent_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// DocumentAnnotation marks a text range of a document version with an
// issue, highlight, comment or suggestion. Independent of the section
// tree. IsResolved is the only field that may be updated in place.
type DocumentAnnotation struct {
	ID         string              `json:"id" db:"id"`
	DocumentID string              `json:"document_id" db:"document_id"`
	StartIndex int                 `json:"start_index" db:"start_index"`
	EndIndex   int                 `json:"end_index" db:"end_index"`
	Text       string              `json:"text" db:"text"`
	Type       AnnotationType      `json:"type" db:"type"`
	Comment    *string             `json:"comment,omitempty" db:"comment"`
	Severity   *AnnotationSeverity `json:"severity,omitempty" db:"severity"`
	IsResolved bool                `json:"is_resolved" db:"is_resolved"`
	CreatedAt  time.Time           `json:"created_at" db:"created_at"`
}

// TextRange is the index-bound contract shared by sections and
// annotations: 0 <= start < end, and end must not exceed the document
// text length when the length is known.
type TextRange struct {
	StartIndex int
	EndIndex   int
}

// Validate checks the range invariant. textLen < 0 means the document
// text length is unknown and only the relative bounds are checked.
func (r TextRange) Validate(textLen int) error {
	if r.StartIndex < 0 {
		return fmt.Errorf("start index %d is negative", r.StartIndex)
	}
	if r.StartIndex >= r.EndIndex {
		return fmt.Errorf("start index %d is not before end index %d", r.StartIndex, r.EndIndex)
	}
	if textLen >= 0 && r.EndIndex > textLen {
		return fmt.Errorf("end index %d exceeds document length %d", r.EndIndex, textLen)
	}
	return nil
}

// Range returns the section's text range.
func (s *DocumentSection) Range() TextRange {
	return TextRange{StartIndex: s.StartIndex, EndIndex: s.EndIndex}
}

// Range returns the annotation's text range.
func (a *DocumentAnnotation) Range() TextRange {
	return TextRange{StartIndex: a.StartIndex, EndIndex: a.EndIndex}
}
