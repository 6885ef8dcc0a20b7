// Package extraction turns raw uploaded file bytes into normalized
// document text and metadata. Parsing is a capability map from file type
// to parser, so supporting a new format means registering one entry, not
// touching the gateway's control flow.
package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"casefile/internal/domain/models"
)

// Options control extraction behavior per request.
type Options struct {
	// ExtractPages asks for per-page text where the format supports it (PDF).
	ExtractPages bool
	// PreserveFormatting keeps soft structure (paragraph breaks) where the
	// parser can.
	PreserveFormatting bool
}

// Metadata describes the extracted document.
type Metadata struct {
	FileName   string          `json:"file_name"`
	FileType   models.FileType `json:"file_type"`
	FileSize   int64           `json:"file_size"`
	UploadedAt time.Time       `json:"uploaded_at"`
	PageCount  *int            `json:"page_count,omitempty"`
	WordCount  *int            `json:"word_count,omitempty"`
}

// Page holds one page's text for paginated formats.
type Page struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// DocumentContent is the gateway's normalized output.
type DocumentContent struct {
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
	Pages    []Page   `json:"pages,omitempty"`
}

// ParseResult is what an individual parser capability produces.
type ParseResult struct {
	Text string
	// PageCount is the parser-reported page count; zero when the format
	// has no page concept.
	PageCount int
}

// Parser is one file-type capability. Implementations are pure over their
// input and safe for unbounded parallelism across distinct documents.
type Parser interface {
	Parse(ctx context.Context, data []byte, opts Options) (*ParseResult, error)
}

// Gateway dispatches extraction to the parser registered for the file
// type resolved from the file name's extension.
type Gateway struct {
	parsers map[models.FileType]Parser
	logger  *slog.Logger
}

// NewGateway creates a gateway with the default parser capabilities for
// pdf, docx, txt and md.
func NewGateway(logger *slog.Logger) *Gateway {
	g := &Gateway{
		parsers: make(map[models.FileType]Parser),
		logger:  logger,
	}
	g.Register(models.FileTypePDF, NewPDFParser())
	g.Register(models.FileTypeDOCX, NewDOCXParser())
	g.Register(models.FileTypeTXT, NewPlainTextParser())
	g.Register(models.FileTypeMD, NewPlainTextParser())
	return g
}

// Register installs or replaces the parser for a file type.
func (g *Gateway) Register(fileType models.FileType, parser Parser) {
	g.parsers[fileType] = parser
}

// ResolveFileType maps a file name's extension to a file type.
func ResolveFileType(fileName string) (models.FileType, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	switch ext {
	case "pdf":
		return models.FileTypePDF, nil
	case "docx":
		return models.FileTypeDOCX, nil
	case "txt":
		return models.FileTypeTXT, nil
	case "md":
		return models.FileTypeMD, nil
	default:
		return "", &UnsupportedFileTypeError{Extension: ext}
	}
}

// Extract resolves the file type, runs the matching parser, and builds
// normalized content with word and page counts. Parser failures of any
// kind - including panics from malformed input - come back as an
// ExtractionFailedError; nothing is written anywhere.
func (g *Gateway) Extract(ctx context.Context, data []byte, fileName string, opts Options) (*DocumentContent, error) {
	fileType, err := ResolveFileType(fileName)
	if err != nil {
		return nil, err
	}

	parser, ok := g.parsers[fileType]
	if !ok {
		return nil, &UnsupportedFileTypeError{Extension: string(fileType)}
	}

	result, err := g.parse(ctx, parser, data, opts)
	if err != nil {
		g.logger.Warn("extraction failed",
			"file_name", fileName,
			"file_type", fileType,
			"error", err,
		)
		return nil, &ExtractionFailedError{FileName: fileName, Cause: err}
	}

	content := &DocumentContent{
		Text: result.Text,
		Metadata: Metadata{
			FileName:   fileName,
			FileType:   fileType,
			FileSize:   int64(len(data)),
			UploadedAt: time.Now(),
		},
	}

	words := CountWords(result.Text)
	content.Metadata.WordCount = &words

	if fileType == models.FileTypePDF {
		if opts.ExtractPages {
			content.Pages = splitPages(result.Text)
		}
		pageCount := len(content.Pages)
		if pageCount == 0 {
			pageCount = result.PageCount
		}
		if pageCount < 1 {
			pageCount = 1
		}
		content.Metadata.PageCount = &pageCount
	}

	return content, nil
}

// parse invokes the capability, converting a panic from a malformed file
// into an ordinary error so no parser failure escapes the gateway.
func (g *Gateway) parse(ctx context.Context, parser Parser, data []byte, opts Options) (result *ParseResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()
	return parser.Parse(ctx, data, opts)
}

// CountWords counts non-empty whitespace-separated tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// splitPages cuts text on form feeds, the page separator paginated
// parsers emit.
func splitPages(text string) []Page {
	segments := strings.Split(text, "\f")
	pages := make([]Page, 0, len(segments))
	for i, segment := range segments {
		pages = append(pages, Page{
			PageNumber: i + 1,
			Text:       strings.TrimSpace(segment),
		})
	}
	return pages
}
