// Package chunker splits extracted document text into overlapping
// fixed-size spans for embedding.
package chunker

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOverlapTooLarge indicates an overlap that would stop the sliding
// window from advancing.
var ErrOverlapTooLarge = errors.New("chunk overlap must be smaller than chunk size")

// Chunker splits text into windows of Size runes that overlap by
// Overlap runes. Windows are measured in runes, not bytes, so a
// boundary can never land inside a multi-byte UTF-8 sequence.
type Chunker struct {
	size    int
	overlap int
}

// New creates a chunker. Overlap must be strictly smaller than size or
// the window would never advance.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", ErrOverlapTooLarge, size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split returns the overlapping spans of text. Whitespace-only input
// yields no chunks; input no longer than the chunk size yields exactly
// one. The final span may be shorter than the chunk size. Every chunk
// is valid UTF-8. Deterministic and side-effect free.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= c.size {
		return []string{text}
	}

	step := c.size - c.overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// Size reports the configured window size.
func (c *Chunker) Size() int { return c.size }

// Overlap reports the configured window overlap.
func (c *Chunker) Overlap() int { return c.overlap }
