package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"

	"text-intel-go/internal/config"
)

// chatProvider adapts a langchaingo model to Provider. The model is built on the
// first call so that a missing key only fails requests that select this provider.
type chatProvider struct {
	name           string
	build          func() (llms.Model, error)
	stripReasoning bool
	options        []llms.CallOption

	mu    sync.Mutex
	model llms.Model
}

// NewTogetherProvider returns an adapter for an OpenAI-compatible chat API
// (Together AI by default) serving the given model.
func NewTogetherProvider(p config.ProviderConfig, m config.ModelConfig, gen config.LLMGenerationConfig) Provider {
	return &chatProvider{
		name:           "together/" + m.Name,
		stripReasoning: m.StripReasoning,
		options:        callOptions(gen),
		build: func() (llms.Model, error) {
			if p.APIKey == "" {
				return nil, fmt.Errorf("together: %w", ErrMissingAPIKey)
			}
			opts := []openai.Option{openai.WithToken(p.APIKey), openai.WithModel(m.Name)}
			if p.BaseURL != "" {
				opts = append(opts, openai.WithBaseURL(p.BaseURL))
			}
			model, err := openai.New(opts...)
			if err != nil {
				return nil, err
			}
			return model, nil
		},
	}
}

// NewGeminiProvider returns an adapter for the Google Gemini API.
func NewGeminiProvider(p config.ProviderConfig, m config.ModelConfig, gen config.LLMGenerationConfig) Provider {
	return &chatProvider{
		name:           "gemini/" + m.Name,
		stripReasoning: m.StripReasoning,
		options:        callOptions(gen),
		build: func() (llms.Model, error) {
			if p.APIKey == "" {
				return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
			}
			// the client outlives the request that builds it
			model, err := googleai.New(context.Background(),
				googleai.WithAPIKey(p.APIKey),
				googleai.WithDefaultModel(m.Name),
			)
			if err != nil {
				return nil, err
			}
			return model, nil
		},
	}
}

func (p *chatProvider) Name() string { return p.name }

func (p *chatProvider) client() (llms.Model, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.model != nil {
		return p.model, nil
	}
	model, err := p.build()
	if err != nil {
		return nil, err
	}
	p.model = model
	return model, nil
}

// Generate submits prompt as a single user message and returns the completion text.
func (p *chatProvider) Generate(ctx context.Context, prompt string) (string, error) {
	model, err := p.client()
	if err != nil {
		return "", err
	}
	out, err := llms.GenerateFromSinglePrompt(ctx, model, prompt, p.options...)
	if err != nil {
		return "", err
	}
	if p.stripReasoning {
		out = StripReasoning(out)
	}
	return out, nil
}

func callOptions(gen config.LLMGenerationConfig) []llms.CallOption {
	var opts []llms.CallOption
	if gen.Temperature != 0 {
		opts = append(opts, llms.WithTemperature(gen.Temperature))
	}
	if gen.TopP != 0 {
		opts = append(opts, llms.WithTopP(gen.TopP))
	}
	if gen.MaxTokens != 0 {
		opts = append(opts, llms.WithMaxTokens(gen.MaxTokens))
	}
	return opts
}

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripReasoning removes <think>...</think> blocks emitted by reasoning models.
// Some distilled models omit the opening tag, so everything up to a lone closing
// tag is dropped as well. Text without reasoning markup is returned unchanged.
func StripReasoning(s string) string {
	stripped := thinkBlock.ReplaceAllString(s, "")
	if i := strings.LastIndex(stripped, "</think>"); i >= 0 {
		stripped = stripped[i+len("</think>"):]
	}
	if stripped == s {
		return s
	}
	return strings.TrimLeft(stripped, " \t\r\n")
}
