package tokenizer

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/docsum/doc-summarizer/internal/domain/summary"
)

const defaultEncoding = "cl100k_base"

// Counter estimates token counts with a tiktoken BPE encoding. The estimate
// is for usage reporting only; the remote model applies its own tokenizer.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter loads the default encoding.
func NewCounter() (*Counter, error) {
	enc, err := tiktoken.GetEncoding(defaultEncoding)
	if err != nil {
		return nil, err
	}
	return &Counter{enc: enc}, nil
}

// Count returns the token count of text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}

var _ summary.TokenCounter = (*Counter)(nil)
