package extraction

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestDOCX builds a minimal OOXML package in memory with one
// word/document.xml containing the given paragraphs.
func createTestDOCX(t *testing.T, paragraphs []string) []byte {
	t.Helper()

	var body bytes.Buffer
	for _, p := range paragraphs {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}

	documentXML := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>%s</w:body>
</w:document>`, body.String())

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDOCXParserExtractsParagraphs(t *testing.T) {
	data := createTestDOCX(t, []string{"First paragraph.", "Second paragraph."})

	parser := NewDOCXParser()
	result, err := parser.Parse(context.Background(), data, Options{})
	require.NoError(t, err)

	assert.Equal(t, "First paragraph.\nSecond paragraph.", result.Text)
	assert.Zero(t, result.PageCount, "docx has no page concept at parse time")
}

func TestDOCXParserPreserveFormatting(t *testing.T) {
	data := createTestDOCX(t, []string{"Intro.", "Terms."})

	parser := NewDOCXParser()
	result, err := parser.Parse(context.Background(), data, Options{PreserveFormatting: true})
	require.NoError(t, err)

	assert.Equal(t, "Intro.\n\nTerms.", result.Text)
}

func TestDOCXParserMultipleRuns(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>Split </w:t></w:r><w:r><w:t>across runs</w:t></w:r></w:p></w:body>
</w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	parser := NewDOCXParser()
	result, err := parser.Parse(context.Background(), buf.Bytes(), Options{})
	require.NoError(t, err)

	assert.Equal(t, "Split across runs", result.Text)
}

func TestDOCXParserRejectsNonArchive(t *testing.T) {
	parser := NewDOCXParser()
	_, err := parser.Parse(context.Background(), []byte("this is not a zip"), Options{})
	assert.Error(t, err)
}

func TestDOCXParserMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	parser := NewDOCXParser()
	_, err = parser.Parse(context.Background(), buf.Bytes(), Options{})
	assert.ErrorContains(t, err, "word/document.xml")
}

func TestGatewayExtractsDOCX(t *testing.T) {
	data := createTestDOCX(t, []string{"Hello from the archive."})

	g := NewGateway(testLogger())
	content, err := g.Extract(context.Background(), data, "brief.docx", Options{})
	require.NoError(t, err)

	assert.Equal(t, "Hello from the archive.", content.Text)
	require.NotNil(t, content.Metadata.WordCount)
	assert.Equal(t, 4, *content.Metadata.WordCount)
}
