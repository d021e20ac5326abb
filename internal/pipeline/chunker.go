package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"

	"text-intel-go/internal/model"
)

// ErrInvalidChunking is returned for a chunk size or overlap that cannot make progress.
var ErrInvalidChunking = errors.New("invalid chunking configuration")

// Chunker splits document text into overlapping, bounded pieces.
type Chunker struct {
	size     int
	overlap  int
	splitter textsplitter.RecursiveCharacter
}

// NewChunker returns a Chunker producing pieces of at most size runes that
// share up to overlap runes with their predecessor. Text is split on separator
// first; segments still longer than size are cut by length.
func NewChunker(size, overlap int, separator string) (*Chunker, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", ErrInvalidChunking, size, overlap)
	}
	separators := []string{separator, ""}
	if separator == "" {
		separators = []string{""}
	}
	return &Chunker{
		size:    size,
		overlap: overlap,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
			textsplitter.WithSeparators(separators),
			textsplitter.WithLenFunc(utf8.RuneCountInString),
		),
	}, nil
}

// Split returns the chunks of text in document order. Whitespace-only text
// yields no chunks.
func (c *Chunker) Split(text string) ([]model.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	pieces, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}
	chunks := make([]model.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		chunks = append(chunks, model.Chunk{Index: len(chunks), Text: piece})
	}
	return chunks, nil
}
