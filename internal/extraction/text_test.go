package extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainTextParser(t *testing.T) {
	parser := NewPlainTextParser()

	result, err := parser.Parse(context.Background(), []byte("plain content"), Options{})
	require.NoError(t, err)
	assert.Equal(t, "plain content", result.Text)
}

func TestPlainTextParserRejectsInvalidUTF8(t *testing.T) {
	parser := NewPlainTextParser()

	_, err := parser.Parse(context.Background(), []byte{0xff, 0xfe, 0x00}, Options{})
	assert.Error(t, err)
}
