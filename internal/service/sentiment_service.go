package service

import (
	"context"
	"strings"

	"text-intel-go/pkg/llm"
	"text-intel-go/pkg/log"
)

// Sentiment labels the model is asked to choose from.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// SentimentService classifies the overall sentiment of a text.
type SentimentService interface {
	Analyze(ctx context.Context, text string, choice llm.ModelChoice) (string, error)
}

type sentimentService struct {
	generator llm.Generator
}

// NewSentimentService creates a SentimentService.
func NewSentimentService(generator llm.Generator) SentimentService {
	return &sentimentService{generator: generator}
}

// Analyze returns the model's classification, trimmed. A reply that is one of
// the three labels up to case and trailing punctuation is returned as the bare
// lower-case label; anything else is passed through.
func (s *sentimentService) Analyze(ctx context.Context, text string, choice llm.ModelChoice) (string, error) {
	if isBlank(text) {
		return "", ErrEmptyInput
	}
	out, err := s.generator.Generate(ctx, choice, buildSentimentPrompt(text))
	if err != nil {
		return "", err
	}
	label := normalizeSentiment(out)
	log.Infof("[SentimentService] model %s classified text as %q", choice, label)
	return label, nil
}

func normalizeSentiment(out string) string {
	trimmed := strings.TrimSpace(out)
	candidate := strings.ToLower(strings.TrimRight(trimmed, ".!*\"' "))
	candidate = strings.Trim(candidate, "*\"' ")
	switch candidate {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return candidate
	}
	return trimmed
}
