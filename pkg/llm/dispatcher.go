package llm

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"text-intel-go/internal/config"
	"text-intel-go/pkg/log"
)

// Dispatcher maps every ModelChoice to its Provider. The registry is built once
// at startup and only read afterwards, so a Dispatcher is safe for concurrent use.
type Dispatcher struct {
	providers map[ModelChoice]Provider
	timeout   time.Duration
}

// NewDispatcher builds the registry from configuration: Llama and Deepseek run
// on the Together API, Gemini on the Google API.
func NewDispatcher(cfg config.LLMConfig) *Dispatcher {
	return NewDispatcherWithProviders(map[ModelChoice]Provider{
		ModelLlama:    NewTogetherProvider(cfg.Together, cfg.Models.Llama, cfg.Generation),
		ModelGemini:   NewGeminiProvider(cfg.Gemini, cfg.Models.Gemini, cfg.Generation),
		ModelDeepseek: NewTogetherProvider(cfg.Together, cfg.Models.Deepseek, cfg.Generation),
	}, cfg.Timeout)
}

// NewDispatcherWithProviders builds a Dispatcher over an explicit registry.
// timeout bounds every provider call; zero disables the bound.
func NewDispatcherWithProviders(providers map[ModelChoice]Provider, timeout time.Duration) *Dispatcher {
	registry := make(map[ModelChoice]Provider, len(providers))
	for choice, p := range providers {
		registry[choice] = p
	}
	return &Dispatcher{providers: registry, timeout: timeout}
}

// Models returns the registered choices in ModelChoices order.
func (d *Dispatcher) Models() []ModelChoice {
	out := make([]ModelChoice, 0, len(d.providers))
	for _, choice := range ModelChoices {
		if _, ok := d.providers[choice]; ok {
			out = append(out, choice)
		}
	}
	return out
}

// Generate sends prompt to the provider registered for choice and returns its
// output unmodified. Callers must resolve defaults beforehand: an unregistered
// choice fails with ErrUnknownModel. Provider failures come back as *ProviderError
// and are not retried.
func (d *Dispatcher) Generate(ctx context.Context, choice ModelChoice, prompt string) (string, error) {
	provider, ok := d.providers[choice]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, choice)
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := provider.Generate(ctx, prompt)
	latency := time.Since(start)
	if err != nil {
		log.Errorw("[Dispatcher] provider call failed",
			"model", string(choice),
			"provider", provider.Name(),
			"latency", latency.String(),
			"error", err,
		)
		return "", &ProviderError{Model: choice, Err: err}
	}

	log.Infow("[Dispatcher] provider call succeeded",
		"model", string(choice),
		"provider", provider.Name(),
		"latency", latency.String(),
		"promptChars", utf8.RuneCountInString(prompt),
		"outputChars", utf8.RuneCountInString(out),
	)
	return out, nil
}
