// Package config centralizes environment-driven configuration for the
// wellmate server and tools.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Clients are constructed from it once at
// startup and passed down explicitly; nothing reads the environment after
// Load returns.
type Config struct {
	// Postgres
	DatabaseURL string

	// OpenAI
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string

	// HTTP
	Port           string
	SecretKey      string
	AllowedOrigins []string
	StaticDir      string

	// Conversation
	MaxHistory int

	LogLevel string
}

// Load reads configuration from the environment, consulting a .env file
// first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		ChatModel:      getEnv("OPENAI_MODEL_CHAT", "gpt-4o-mini"),
		EmbeddingModel: getEnv("OPENAI_MODEL_EMBEDDING", "text-embedding-3-small"),
		Port:           getEnv("PORT", "8080"),
		SecretKey:      getEnv("SECRET_KEY", "your-secret-key"),
		AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:8000,http://127.0.0.1:8000")),
		StaticDir:      getEnv("STATIC_DIR", "static"),
		MaxHistory:     getEnvInt("MAX_HISTORY", 10),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}
	if c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY must be set")
	}
	if c.MaxHistory <= 0 {
		return fmt.Errorf("MAX_HISTORY must be positive, got %d", c.MaxHistory)
	}
	return nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
