// Package pipeline turns an uploaded document into retrieval context for a prompt.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"text-intel-go/internal/model"
	"text-intel-go/pkg/extract"
	"text-intel-go/pkg/log"
)

// AssembleContext joins chunk texts with a blank line, in the given order.
func AssembleContext(chunks []model.Chunk) string {
	return strings.Join(model.Texts(chunks), "\n\n")
}

// Processor runs extraction, chunking, indexing and retrieval for one request.
type Processor struct {
	extractor *extract.Extractor
	chunker   *Chunker
	indexer   *Indexer
}

// NewProcessor creates a Processor from its stages.
func NewProcessor(extractor *extract.Extractor, chunker *Chunker, indexer *Indexer) *Processor {
	return &Processor{
		extractor: extractor,
		chunker:   chunker,
		indexer:   indexer,
	}
}

// Extract reads an uploaded file into a Document.
func (p *Processor) Extract(r io.Reader, filename string) (*model.Document, error) {
	doc, err := p.extractor.Extract(r, filename)
	if err != nil {
		log.Warnf("[Processor] extraction failed, file: %s, error: %v", filename, err)
		return nil, err
	}
	if strings.TrimSpace(doc.Text) == "" {
		log.Warnf("[Processor] %s contains no text", doc.Name)
	}
	return doc, nil
}

// RetrieveContext chunks and indexes text, then returns the k chunks most
// similar to query joined into a single context string. Text without any
// content yields an empty context.
func (p *Processor) RetrieveContext(ctx context.Context, text, query string, k int) (string, error) {
	chunks, err := p.chunker.Split(text)
	if err != nil {
		return "", err
	}
	log.Infof("[Processor] split text into %d chunks", len(chunks))

	index, err := p.indexer.Build(ctx, chunks)
	if err != nil {
		log.Errorf("[Processor] indexing failed: %v", err)
		return "", fmt.Errorf("build index: %w", err)
	}

	top, err := index.Retrieve(ctx, query, k)
	if errors.Is(err, ErrEmptyIndex) {
		log.Warnf("[Processor] no chunks to retrieve from, continuing with empty context")
		return "", nil
	}
	if err != nil {
		log.Errorf("[Processor] retrieval failed: %v", err)
		return "", fmt.Errorf("retrieve context: %w", err)
	}
	log.Infof("[Processor] retrieved %d of %d chunks (k=%d)", len(top), index.Len(), k)
	return AssembleContext(top), nil
}
