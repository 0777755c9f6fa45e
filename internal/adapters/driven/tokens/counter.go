// Package tokens provides a TokenCounter backed by tiktoken-go.
package tokens

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure Counter implements the interface.
var _ driven.TokenCounter = (*Counter)(nil)

// DefaultEncoding is the BPE used by the supported chat models.
const DefaultEncoding = "cl100k_base"

// runesPerToken is the estimate used when no encoding is available.
const runesPerToken = 4

// Counter counts tokens with a BPE encoding loaded on first use.
// When the encoding cannot be loaded (it is fetched and cached on first
// run), counts fall back to a rune-based estimate.
type Counter struct {
	load func() (*tiktoken.Tiktoken, error)

	once sync.Once
	enc  *tiktoken.Tiktoken
}

// NewCounter creates a counter for DefaultEncoding.
func NewCounter() *Counter {
	return newCounter(func() (*tiktoken.Tiktoken, error) {
		return tiktoken.GetEncoding(DefaultEncoding)
	})
}

func newCounter(load func() (*tiktoken.Tiktoken, error)) *Counter {
	return &Counter{load: load}
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	c.once.Do(func() {
		enc, err := c.load()
		if err != nil {
			logger.Warn("Token encoding %s unavailable, estimating: %v", DefaultEncoding, err)
			return
		}
		c.enc = enc
	})

	if c.enc == nil {
		return Estimate(text)
	}
	return len(c.enc.Encode(text, nil, nil))
}

// Exact reports whether counts come from the encoding rather than the estimate.
// It is only meaningful after the first Count.
func (c *Counter) Exact() bool {
	return c.enc != nil
}

// Estimate approximates a token count from the rune length.
func Estimate(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + runesPerToken - 1) / runesPerToken
}

// Estimator is a TokenCounter that never loads an encoding.
type Estimator struct{}

// Count returns the estimated number of tokens in text.
func (Estimator) Count(text string) int {
	return Estimate(text)
}
