// Package llm routes prompts to the hosted large-language-model providers.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ModelChoice selects the provider adapter that serves a request.
type ModelChoice string

const (
	ModelLlama    ModelChoice = "LLama 3.3 Meta"
	ModelGemini   ModelChoice = "Google Gemini"
	ModelDeepseek ModelChoice = "Deepseek"

	// DefaultModel is used when a request names no model.
	DefaultModel = ModelLlama
)

// ModelChoices lists the known choices; the first one is the default.
var ModelChoices = []ModelChoice{ModelLlama, ModelGemini, ModelDeepseek}

var (
	// ErrUnknownModel is returned for a model name outside ModelChoices.
	ErrUnknownModel = errors.New("unknown model")
	// ErrMissingAPIKey is returned by an adapter whose credentials are not configured.
	ErrMissingAPIKey = errors.New("api key is not configured")
)

var modelAliases = map[string]ModelChoice{
	"llama 3.3 meta": ModelLlama,
	"llama 3.3":      ModelLlama,
	"llama":          ModelLlama,
	"google gemini":  ModelGemini,
	"gemini":         ModelGemini,
	"deepseek":       ModelDeepseek,
}

// ParseModelChoice maps a request value to a ModelChoice. An empty value yields
// DefaultModel; matching ignores case and treats '-' and '_' as spaces.
func ParseModelChoice(s string) (ModelChoice, error) {
	key := strings.TrimSpace(s)
	if key == "" {
		return DefaultModel, nil
	}
	key = strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(key))
	key = strings.Join(strings.Fields(key), " ")
	if choice, ok := modelAliases[key]; ok {
		return choice, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModel, s)
}

// Provider is one LLM backend capable of answering a single prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generator is what the task services depend on: one prompt in, one answer out.
type Generator interface {
	Generate(ctx context.Context, choice ModelChoice, prompt string) (string, error)
}

// ProviderError wraps a transport, authentication or rate-limit failure of a provider call.
type ProviderError struct {
	Model ModelChoice
	Err   error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
