package service

import (
	"context"
	"fmt"
	"io"

	"text-intel-go/internal/config"
	"text-intel-go/pkg/llm"
	"text-intel-go/pkg/log"
)

// SummaryService summarizes pasted text or an uploaded document.
type SummaryService interface {
	SummarizeText(ctx context.Context, text string, choice llm.ModelChoice) (string, error)
	SummarizeDocument(ctx context.Context, r io.Reader, filename string, choice llm.ModelChoice) (string, error)
}

type summaryService struct {
	pipeline  DocumentPipeline
	generator llm.Generator
	topK      int
	query     string
}

// NewSummaryService creates a SummaryService. Both operations go through
// retrieval: the chunks closest to cfg.SummaryQuery form the summarized context.
func NewSummaryService(pipeline DocumentPipeline, generator llm.Generator, cfg config.RAGConfig) SummaryService {
	return &summaryService{
		pipeline:  pipeline,
		generator: generator,
		topK:      cfg.SummaryTopK,
		query:     cfg.SummaryQuery,
	}
}

func (s *summaryService) SummarizeText(ctx context.Context, text string, choice llm.ModelChoice) (string, error) {
	if isBlank(text) {
		return "", ErrEmptyInput
	}
	return s.summarize(ctx, text, choice)
}

func (s *summaryService) SummarizeDocument(ctx context.Context, r io.Reader, filename string, choice llm.ModelChoice) (string, error) {
	doc, err := s.pipeline.Extract(r, filename)
	if err != nil {
		return "", err
	}
	return s.summarize(ctx, doc.Text, choice)
}

func (s *summaryService) summarize(ctx context.Context, text string, choice llm.ModelChoice) (string, error) {
	contextText, err := s.pipeline.RetrieveContext(ctx, text, s.query, s.topK)
	if err != nil {
		return "", fmt.Errorf("summary context: %w", err)
	}
	log.Infof("[SummaryService] summarizing with %s, context length: %d", choice, len(contextText))
	return s.generator.Generate(ctx, choice, buildSummaryPrompt(contextText))
}
