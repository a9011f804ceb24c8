// Package token provides deterministic token counting backed by tiktoken-go.
// It uses the cl100k_base encoding and falls back to a character-based
// heuristic if the encoding cannot be initialized, so cost estimation keeps
// working offline.
package token

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts tokens of text with a fixed encoding. The zero value is not
// usable; construct with NewCounter.
type Counter struct {
	encoding *tiktoken.Tiktoken
}

// NewCounter initializes a counter over cl100k_base. Initialization failure
// is not an error: the counter degrades to the heuristic estimate.
func NewCounter() *Counter {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &Counter{}
	}
	return &Counter{encoding: enc}
}

// CountTokens returns the token count of text. Deterministic for a given
// input, which cost records depend on.
func (c *Counter) CountTokens(text string) int {
	if c.encoding != nil {
		return len(c.encoding.Encode(text, nil, nil))
	}
	return estimateFast(text)
}

// estimateFast is the fallback heuristic: max(runes/4, word count), minimum
// one token for non-empty text.
func estimateFast(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	runes := len([]rune(trimmed))
	words := len(strings.Fields(trimmed))
	estimate := runes / 4
	if estimate < words {
		estimate = words
	}
	if estimate == 0 {
		estimate = 1
	}
	return estimate
}
