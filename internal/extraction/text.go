package extraction

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// PlainTextParser handles txt and md: a direct UTF-8 decode with no
// structural interpretation.
type PlainTextParser struct{}

// NewPlainTextParser creates the default plain-text capability.
func NewPlainTextParser() *PlainTextParser {
	return &PlainTextParser{}
}

// Parse implements the Parser interface.
func (p *PlainTextParser) Parse(_ context.Context, data []byte, _ Options) (*ParseResult, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("content is not valid UTF-8")
	}
	return &ParseResult{Text: string(data)}, nil
}
