package extraction

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DOCXParser extracts flat text from the word/document.xml part of the
// OOXML package: paragraph by paragraph, runs concatenated in order.
// Styling is discarded; with PreserveFormatting, paragraphs keep a blank
// line between them instead of a bare newline.
type DOCXParser struct{}

// NewDOCXParser creates the default DOCX capability.
func NewDOCXParser() *DOCXParser {
	return &DOCXParser{}
}

// documentXML mirrors the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Text []docxText `xml:"t"`
}

type docxText struct {
	Content string `xml:",chardata"`
}

// Parse implements the Parser interface.
func (p *DOCXParser) Parse(_ context.Context, data []byte, opts Options) (*ParseResult, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open document part: %w", err)
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read document part: %w", err)
		}

		text, err := parseDocumentXML(content, opts.PreserveFormatting)
		if err != nil {
			return nil, err
		}
		return &ParseResult{Text: text}, nil
	}

	return nil, fmt.Errorf("word/document.xml not found in archive")
}

// parseDocumentXML extracts text content from the document XML.
func parseDocumentXML(content []byte, preserveFormatting bool) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("parse document xml: %w", err)
	}

	separator := "\n"
	if preserveFormatting {
		separator = "\n\n"
	}

	var sb strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			sb.WriteString(separator)
		}
		for _, run := range para.Runs {
			for _, text := range run.Text {
				sb.WriteString(text.Content)
			}
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
