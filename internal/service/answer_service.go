package service

import (
	"context"
	"fmt"
	"io"

	"text-intel-go/pkg/llm"
	"text-intel-go/pkg/log"
)

// AnswerService answers questions, optionally grounded in an uploaded document.
type AnswerService interface {
	Answer(ctx context.Context, question string, choice llm.ModelChoice) (string, error)
	AnswerFromDocument(ctx context.Context, r io.Reader, filename, query string, choice llm.ModelChoice) (string, error)
}

type answerService struct {
	pipeline  DocumentPipeline
	generator llm.Generator
	topK      int
}

// NewAnswerService creates an AnswerService retrieving topK chunks for document questions.
func NewAnswerService(pipeline DocumentPipeline, generator llm.Generator, topK int) AnswerService {
	return &answerService{pipeline: pipeline, generator: generator, topK: topK}
}

// Answer asks the model directly, without retrieval.
func (s *answerService) Answer(ctx context.Context, question string, choice llm.ModelChoice) (string, error) {
	if isBlank(question) {
		return "", ErrEmptyInput
	}
	return s.generator.Generate(ctx, choice, buildAnswerPrompt(question))
}

// AnswerFromDocument extracts the document, retrieves the chunks closest to
// query and asks the model to answer from them.
func (s *answerService) AnswerFromDocument(ctx context.Context, r io.Reader, filename, query string, choice llm.ModelChoice) (string, error) {
	doc, err := s.pipeline.Extract(r, filename)
	if err != nil {
		return "", err
	}
	contextText, err := s.pipeline.RetrieveContext(ctx, doc.Text, query, s.topK)
	if err != nil {
		return "", fmt.Errorf("document context: %w", err)
	}
	log.Infof("[AnswerService] answering from %s with %s, context length: %d", doc.Name, choice, len(contextText))
	return s.generator.Generate(ctx, choice, buildDocumentAnswerPrompt(contextText, query))
}
