// Package embedding provides the sentence-embedding models used to index document chunks.
package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/embeddings/cybertron"
	"github.com/tmc/langchaingo/llms/openai"

	"text-intel-go/internal/config"
	"text-intel-go/pkg/log"
)

// ErrEmptyEmbedding is returned when a model answers with no vector.
var ErrEmptyEmbedding = errors.New("received empty embedding")

// Client defines the interface for an embedding client.
// Implementations must be safe for concurrent use and return vectors of a fixed dimension.
type Client interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

// DefaultLocalModel is the pretrained sentence encoder run in-process by the local provider.
const DefaultLocalModel = "sentence-transformers/all-MiniLM-L6-v2"

// NewClient creates the embedding client selected by cfg.Provider.
func NewClient(cfg config.EmbeddingConfig) (Client, error) {
	switch cfg.Provider {
	case "", "local":
		return newLocalClient(cfg)
	case "hashing":
		return NewHashingClient(cfg.Dimensions), nil
	case "openai":
		return newOpenAICompatibleClient(cfg)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// embedderClient adapts a langchaingo embedder to Client.
type embedderClient struct {
	model    string
	embedder embeddings.Embedder
}

func newEmbedderClient(model string, client embeddings.EmbedderClient) (*embedderClient, error) {
	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return &embedderClient{model: model, embedder: embedder}, nil
}

// newLocalClient loads the pretrained encoder from cfg.ModelsDir, downloading it
// from the Hugging Face hub on first start.
func newLocalClient(cfg config.EmbeddingConfig) (*embedderClient, error) {
	model := cfg.LocalModel
	if model == "" {
		model = DefaultLocalModel
	}
	log.Infof("[EmbeddingClient] loading local model %s from %s", model, cfg.ModelsDir)
	encoder, err := cybertron.NewCybertron(
		cybertron.WithModel(model),
		cybertron.WithModelsDir(cfg.ModelsDir),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load local embedding model %s: %w", model, err)
	}
	return newEmbedderClient(model, encoder)
}

func (c *embedderClient) ModelName() string { return c.model }

// CreateEmbedding embeds a single text.
func (c *embedderClient) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	log.Debugf("[EmbeddingClient] embedding with %s, input_len: %d", c.model, len(text))
	vec, err := c.embedder.EmbedQuery(ctx, text)
	if err != nil {
		log.Errorf("[EmbeddingClient] %s embedding failed, error: %v", c.model, err)
		return nil, fmt.Errorf("failed to embed text: %w", err)
	}
	if len(vec) == 0 {
		log.Warnf("[EmbeddingClient] %s returned an empty vector", c.model)
		return nil, ErrEmptyEmbedding
	}
	return vec, nil
}

// newOpenAICompatibleClient embeds through any OpenAI-compatible /embeddings endpoint.
func newOpenAICompatibleClient(cfg config.EmbeddingConfig) (*embedderClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("embedding api key is not configured")
	}
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(cfg.APIKey),
		openai.WithEmbeddingModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding llm: %w", err)
	}
	return newEmbedderClient(cfg.Model, llm)
}
