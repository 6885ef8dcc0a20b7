package extraction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casefile/internal/domain/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubParser struct {
	result *ParseResult
	err    error
	panics bool
}

func (p stubParser) Parse(context.Context, []byte, Options) (*ParseResult, error) {
	if p.panics {
		panic("malformed input")
	}
	return p.result, p.err
}

func TestResolveFileType(t *testing.T) {
	tests := []struct {
		fileName string
		want     models.FileType
		wantErr  bool
	}{
		{"contract.pdf", models.FileTypePDF, false},
		{"Contract.PDF", models.FileTypePDF, false},
		{"brief.docx", models.FileTypeDOCX, false},
		{"notes.txt", models.FileTypeTXT, false},
		{"readme.md", models.FileTypeMD, false},
		{"archive.zip", "", true},
		{"noextension", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			got, err := ResolveFileType(tt.fileName)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFileType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPlainText(t *testing.T) {
	g := NewGateway(testLogger())

	content, err := g.Extract(context.Background(), []byte("one two three four"), "notes.txt", Options{})
	require.NoError(t, err)

	assert.Equal(t, "one two three four", content.Text)
	assert.Equal(t, models.FileTypeTXT, content.Metadata.FileType)
	assert.Equal(t, int64(18), content.Metadata.FileSize)
	require.NotNil(t, content.Metadata.WordCount)
	assert.Equal(t, 4, *content.Metadata.WordCount)
	assert.Nil(t, content.Metadata.PageCount, "plain text has no page concept")
}

func TestExtractUnsupportedExtension(t *testing.T) {
	g := NewGateway(testLogger())

	_, err := g.Extract(context.Background(), []byte("data"), "image.bmp", Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestExtractWrapsParserError(t *testing.T) {
	g := NewGateway(testLogger())
	g.Register(models.FileTypeTXT, stubParser{err: fmt.Errorf("bad bytes")})

	_, err := g.Extract(context.Background(), []byte("data"), "broken.txt", Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractionFailed)

	var extractionErr *ExtractionFailedError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, "broken.txt", extractionErr.FileName)
}

func TestExtractRecoversParserPanic(t *testing.T) {
	g := NewGateway(testLogger())
	g.Register(models.FileTypeTXT, stubParser{panics: true})

	_, err := g.Extract(context.Background(), []byte("data"), "evil.txt", Options{})
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExtractSplitsPDFPages(t *testing.T) {
	g := NewGateway(testLogger())
	g.Register(models.FileTypePDF, stubParser{
		result: &ParseResult{Text: "page one\fpage two\fpage three", PageCount: 3},
	})

	content, err := g.Extract(context.Background(), []byte("%PDF"), "scan.pdf", Options{ExtractPages: true})
	require.NoError(t, err)

	require.Len(t, content.Pages, 3)
	assert.Equal(t, 1, content.Pages[0].PageNumber)
	assert.Equal(t, "page one", content.Pages[0].Text)
	assert.Equal(t, "page three", content.Pages[2].Text)
	require.NotNil(t, content.Metadata.PageCount)
	assert.Equal(t, 3, *content.Metadata.PageCount)
}

func TestExtractPDFPageCountWithoutPages(t *testing.T) {
	g := NewGateway(testLogger())
	g.Register(models.FileTypePDF, stubParser{
		result: &ParseResult{Text: "all the text", PageCount: 7},
	})

	content, err := g.Extract(context.Background(), []byte("%PDF"), "scan.pdf", Options{})
	require.NoError(t, err)

	assert.Empty(t, content.Pages)
	require.NotNil(t, content.Metadata.PageCount)
	assert.Equal(t, 7, *content.Metadata.PageCount)
}

func TestExtractPDFPageCountFloorsAtOne(t *testing.T) {
	g := NewGateway(testLogger())
	g.Register(models.FileTypePDF, stubParser{
		result: &ParseResult{Text: "text", PageCount: 0},
	})

	content, err := g.Extract(context.Background(), []byte("%PDF"), "scan.pdf", Options{})
	require.NoError(t, err)
	require.NotNil(t, content.Metadata.PageCount)
	assert.Equal(t, 1, *content.Metadata.PageCount)
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", "  \n\t ", 0},
		{"simple", "hello world", 2},
		{"mixed whitespace", "one\ttwo\nthree  four", 4},
		{"leading and trailing", "  padded out  ", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountWords(tt.text))
		})
	}
}
