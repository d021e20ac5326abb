package service

import (
	"context"
	"strings"

	"text-intel-go/pkg/llm"
)

// EntityService extracts named entities grouped by type.
type EntityService interface {
	Extract(ctx context.Context, text string, choice llm.ModelChoice) (string, error)
}

type entityService struct {
	generator llm.Generator
}

// NewEntityService creates an EntityService.
func NewEntityService(generator llm.Generator) EntityService {
	return &entityService{generator: generator}
}

// Extract returns the grouped entity listing produced by the model, trimmed.
// The listing is not parsed.
func (s *entityService) Extract(ctx context.Context, text string, choice llm.ModelChoice) (string, error) {
	if isBlank(text) {
		return "", ErrEmptyInput
	}
	out, err := s.generator.Generate(ctx, choice, buildEntityPrompt(text))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
