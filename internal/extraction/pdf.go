package extraction

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFParser extracts plain text per page. Pages are joined with form
// feeds so the gateway can split them back apart when page extraction is
// requested. The page count reported here comes from pdfcpu, which reads
// the page tree without decoding content streams; the text walk falls
// back to its own page tally when pdfcpu cannot read the file.
type PDFParser struct{}

// NewPDFParser creates the default PDF capability.
func NewPDFParser() *PDFParser {
	return &PDFParser{}
}

// Parse implements the Parser interface.
func (p *PDFParser) Parse(_ context.Context, data []byte, _ Options) (*ParseResult, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	total := reader.NumPage()
	var sb strings.Builder
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}

		if i > 1 {
			sb.WriteString("\f")
		}
		sb.WriteString(text)
	}

	return &ParseResult{
		Text:      sb.String(),
		PageCount: p.pageCount(data, total),
	}, nil
}

func (p *PDFParser) pageCount(data []byte, fallback int) int {
	count, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return fallback
	}
	return count
}
