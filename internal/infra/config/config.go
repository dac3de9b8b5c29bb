package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// VectorProvider selects which retriever adapter backs the pipeline.
const (
	VectorProviderPinecone = "pinecone"
	VectorProviderPgvector = "pgvector"
)

type Config struct {
	Env  string
	Port string

	Vector     VectorConfig
	DB         DBConfig
	Embedder   EmbedderConfig
	Generation GenerationConfig
	Retrieval  RetrievalConfig
}

type VectorConfig struct {
	Provider string
	IndexURL string
	APIKey   string
	Timeout  int
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type EmbedderConfig struct {
	URL     string
	Model   string
	Timeout int
}

type GenerationConfig struct {
	Enabled     bool
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     int
}

type RetrievalConfig struct {
	TopK          int
	MaxTopK       int
	Threshold     float64
	ExposeResults bool
}

func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8000"),
		Vector: VectorConfig{
			Provider: getEnv("VECTOR_PROVIDER", VectorProviderPinecone),
			IndexURL: getEnv("PINECONE_INDEX_URL", ""),
			APIKey:   getSecret("PINECONE_API_KEY", "PINECONE_API_KEY_FILE", ""),
			Timeout:  getEnvInt("VECTOR_TIMEOUT_SECONDS", 15),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "assistant_user"),
			Password: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "assistant_password"),
			Name:     getEnv("DB_NAME", "assistant_db"),
		},
		Embedder: EmbedderConfig{
			URL:     getEnv("EMBEDDER_URL", "http://localhost:11434"),
			Model:   getEnv("EMBEDDING_MODEL", "all-minilm"),
			Timeout: getEnvInt("EMBEDDER_TIMEOUT_SECONDS", 30),
		},
		Generation: GenerationConfig{
			Enabled:     getEnvBool("GENERATION_ENABLED", true),
			APIKey:      getSecret("OPENAI_API_KEY", "OPENAI_API_KEY_FILE", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Model:       getEnv("GENERATION_MODEL", "gpt-4"),
			Temperature: getEnvFloat("GENERATION_TEMPERATURE", 0.0),
			Timeout:     getEnvInt("GENERATION_TIMEOUT_SECONDS", 60),
		},
		Retrieval: RetrievalConfig{
			TopK:          getEnvInt("RETRIEVAL_TOP_K", 3),
			MaxTopK:       getEnvInt("RETRIEVAL_MAX_TOP_K", 10),
			Threshold:     getEnvFloat("RELEVANCE_THRESHOLD", 25.0),
			ExposeResults: getEnvBool("EXPOSE_RESULTS", false),
		},
	}
}

// Validate checks the mandatory settings so a misconfigured process aborts
// at startup instead of failing per request.
func (c *Config) Validate() error {
	switch c.Vector.Provider {
	case VectorProviderPinecone:
		if c.Vector.IndexURL == "" {
			return fmt.Errorf("PINECONE_INDEX_URL is required when VECTOR_PROVIDER is %q", VectorProviderPinecone)
		}
		if c.Vector.APIKey == "" {
			return fmt.Errorf("PINECONE_API_KEY is required when VECTOR_PROVIDER is %q", VectorProviderPinecone)
		}
	case VectorProviderPgvector:
		// DB settings have usable defaults; connectivity is checked at startup.
	default:
		return fmt.Errorf("unknown VECTOR_PROVIDER %q", c.Vector.Provider)
	}

	if c.Generation.Enabled && c.Generation.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when generation is enabled")
	}
	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("RETRIEVAL_TOP_K must be at least 1")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
