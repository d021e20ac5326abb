package service

import (
	"context"
	"strings"

	"text-intel-go/pkg/llm"
	"text-intel-go/pkg/log"
)

// DefaultLanguage is used when a code request names no language.
const DefaultLanguage = "python"

// SupportedLanguages lists the languages code can be generated in.
var SupportedLanguages = []string{"python", "java", "C++", "javascript"}

// CodeService generates source code from a natural-language request.
type CodeService interface {
	Generate(ctx context.Context, request, language string, choice llm.ModelChoice) (string, error)
}

type codeService struct {
	generator llm.Generator
}

// NewCodeService creates a CodeService.
func NewCodeService(generator llm.Generator) CodeService {
	return &codeService{generator: generator}
}

// ParseLanguage validates a requested language against SupportedLanguages.
// Spelling must match exactly; empty means DefaultLanguage.
func ParseLanguage(language string) (string, error) {
	language = strings.TrimSpace(language)
	if language == "" {
		return DefaultLanguage, nil
	}
	for _, l := range SupportedLanguages {
		if l == language {
			return l, nil
		}
	}
	return "", ErrUnsupportedLanguage
}

// Generate returns the model output as produced.
func (s *codeService) Generate(ctx context.Context, request, language string, choice llm.ModelChoice) (string, error) {
	lang, err := ParseLanguage(language)
	if err != nil {
		return "", err
	}
	if isBlank(request) {
		return "", ErrEmptyInput
	}
	log.Infof("[CodeService] generating %s code with %s", lang, choice)
	return s.generator.Generate(ctx, choice, buildCodePrompt(lang, request))
}
