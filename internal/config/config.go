// Package config loads and holds the application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Conf is the process-wide configuration populated by Init. It is read-only after startup.
var Conf Config

// Config mirrors configs/config.yaml.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	RAG       RAGConfig       `mapstructure:"rag"`
	Upload    UploadConfig    `mapstructure:"upload"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxJSONBodyMB   int64         `mapstructure:"max_json_body_mb"`
}

// MaxJSONBody returns the JSON request body limit in bytes.
func (s ServerConfig) MaxJSONBody() int64 {
	return s.MaxJSONBodyMB * 1024 * 1024
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// LLMConfig holds provider credentials, model ids and generation parameters.
type LLMConfig struct {
	Timeout    time.Duration       `mapstructure:"timeout"`
	Together   ProviderConfig      `mapstructure:"together"`
	Gemini     ProviderConfig      `mapstructure:"gemini"`
	Models     LLMModelsConfig     `mapstructure:"models"`
	Generation LLMGenerationConfig `mapstructure:"generation"`
}

// ProviderConfig is the connection data of one hosted inference API.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// LLMModelsConfig maps every model choice to the provider-side model id.
type LLMModelsConfig struct {
	Llama    ModelConfig `mapstructure:"llama"`
	Gemini   ModelConfig `mapstructure:"gemini"`
	Deepseek ModelConfig `mapstructure:"deepseek"`
}

// ModelConfig names a provider model. StripReasoning removes <think> blocks from its output.
type ModelConfig struct {
	Name           string `mapstructure:"name"`
	StripReasoning bool   `mapstructure:"strip_reasoning"`
}

// LLMGenerationConfig holds optional sampling parameters; zero means provider default.
type LLMGenerationConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// EmbeddingConfig selects the embedding model used by the retrieval pipeline.
// Provider is "local" (pretrained sentence encoder run in-process), "openai"
// (any OpenAI-compatible endpoint) or "hashing" (lexical, offline).
type EmbeddingConfig struct {
	Provider    string `mapstructure:"provider"`
	LocalModel  string `mapstructure:"local_model"`
	ModelsDir   string `mapstructure:"models_dir"`
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	Model       string `mapstructure:"model"`
	Dimensions  int    `mapstructure:"dimensions"`
	Concurrency int    `mapstructure:"concurrency"`
}

// RAGConfig holds chunking and retrieval parameters.
type RAGConfig struct {
	ChunkSize    int    `mapstructure:"chunk_size"`
	ChunkOverlap int    `mapstructure:"chunk_overlap"`
	Separator    string `mapstructure:"separator"`
	QATopK       int    `mapstructure:"qa_top_k"`
	SummaryTopK  int    `mapstructure:"summary_top_k"`
	SummaryQuery string `mapstructure:"summary_query"`
}

// UploadConfig bounds uploaded documents.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxFileSize returns the upload limit in bytes.
func (u UploadConfig) MaxFileSize() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

const (
	envPrefix       = "TEXTINTEL"
	togetherKeyEnv  = "TOGETHER_AI_API_KEY"
	geminiKeyEnv    = "GEMINI_API_KEY"
	defaultSumQuery = "What are the primary topics, arguments, and conclusions in this document?"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.max_json_body_mb", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_path", "")

	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.together.api_key", "")
	v.SetDefault("llm.together.base_url", "https://api.together.xyz/v1")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.models.llama.name", "meta-llama/Llama-3.3-70B-Instruct-Turbo")
	v.SetDefault("llm.models.llama.strip_reasoning", false)
	v.SetDefault("llm.models.gemini.name", "gemini-2.0-flash-exp")
	v.SetDefault("llm.models.gemini.strip_reasoning", false)
	v.SetDefault("llm.models.deepseek.name", "deepseek-ai/DeepSeek-R1-Distill-Llama-70B-free")
	v.SetDefault("llm.models.deepseek.strip_reasoning", true)
	v.SetDefault("llm.generation.temperature", 0.0)
	v.SetDefault("llm.generation.top_p", 0.0)
	v.SetDefault("llm.generation.max_tokens", 0)

	v.SetDefault("embedding.provider", "local")
	v.SetDefault("embedding.local_model", "sentence-transformers/all-MiniLM-L6-v2")
	v.SetDefault("embedding.models_dir", "models")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.base_url", "https://api.together.xyz/v1")
	v.SetDefault("embedding.model", "BAAI/bge-base-en-v1.5")
	v.SetDefault("embedding.dimensions", 384)
	v.SetDefault("embedding.concurrency", 0)

	v.SetDefault("rag.chunk_size", 1000)
	v.SetDefault("rag.chunk_overlap", 200)
	v.SetDefault("rag.separator", "\n")
	v.SetDefault("rag.qa_top_k", 3)
	v.SetDefault("rag.summary_top_k", 1)
	v.SetDefault("rag.summary_query", defaultSumQuery)

	v.SetDefault("upload.max_file_size_mb", 50)
}

// Load reads the YAML file at path (skipped when path is empty or the file does
// not exist), applies environment overrides and returns the result. A .env file
// in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.together.api_key", togetherKeyEnv, envPrefix+"_LLM_TOGETHER_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind %s: %w", togetherKeyEnv, err)
	}
	if err := v.BindEnv("llm.gemini.api_key", geminiKeyEnv, envPrefix+"_LLM_GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind %s: %w", geminiKeyEnv, err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	applyDerived(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDerived(cfg *Config) {
	// Remote embeddings default to the Together key; the default base URL points there.
	if cfg.Embedding.Provider == "openai" && cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = cfg.LLM.Together.APIKey
	}
	if cfg.RAG.SummaryQuery == "" {
		cfg.RAG.SummaryQuery = defaultSumQuery
	}
}

// Validate checks values that would otherwise fail at request time. Missing API
// keys are not checked here: they only matter once a provider is selected.
func (c *Config) Validate() error {
	if c.RAG.ChunkSize <= 0 {
		return fmt.Errorf("rag.chunk_size must be positive, got %d", c.RAG.ChunkSize)
	}
	if c.RAG.ChunkOverlap < 0 || c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("rag.chunk_overlap must be in [0, chunk_size), got %d", c.RAG.ChunkOverlap)
	}
	if c.RAG.QATopK <= 0 || c.RAG.SummaryTopK <= 0 {
		return errors.New("rag.qa_top_k and rag.summary_top_k must be positive")
	}
	switch c.Embedding.Provider {
	case "local":
		if c.Embedding.LocalModel == "" || c.Embedding.ModelsDir == "" {
			return errors.New("embedding.local_model and embedding.models_dir are required for the local provider")
		}
	case "hashing":
		if c.Embedding.Dimensions <= 0 {
			return fmt.Errorf("embedding.dimensions must be positive, got %d", c.Embedding.Dimensions)
		}
	case "openai":
		if c.Embedding.Model == "" {
			return errors.New("embedding.model is required for the openai provider")
		}
	default:
		return fmt.Errorf("unknown embedding.provider %q", c.Embedding.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be positive")
	}
	return nil
}

// Init loads the configuration into Conf and panics on failure.
func Init(configPath string) {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Errorf("failed to load config: %w", err))
	}
	Conf = *cfg
}
