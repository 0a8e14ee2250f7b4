package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the service.
type Config struct {
	APIPort   string
	LogLevel  slog.Level
	LogFormat string

	DBPath    string
	IndexPath string
	UploadDir string

	EmbeddingBaseURL    string
	EmbeddingModelName  string
	EmbeddingVectorSize int

	LLMBaseURL   string
	LLMModelName string
	LLMAPIKey    string

	TopK int
}

// Load reads configuration from environment variables, applying defaults
// for optional fields and validating the rest. A .env file in the working
// directory or any parent (up to five levels) is loaded first; variables
// already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()
	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIPort:            getEnv("API_PORT", "8000"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		DBPath:             getEnv("DB_PATH", "./data/docqa.db"),
		IndexPath:          getEnv("INDEX_PATH", "./data/vectors.index"),
		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "all-MiniLM-L6-v2"),
		LLMBaseURL:         getEnv("LLM_BASE_URL", "http://localhost:11434"),
		LLMModelName:       getEnv("LLM_MODEL", "qwen2.5:1.5b"),
		LLMAPIKey:          getEnv("LLM_API_KEY", "dummy-key"),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	// The vector size must match the embedding model's output; there is no
	// safe default because a mismatch silently corrupts the index.
	sizeStr := os.Getenv("EMBEDDING_VECTOR_SIZE")
	if sizeStr == "" {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE is required")
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if size <= 0 {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE must be greater than 0")
	}
	cfg.EmbeddingVectorSize = size

	topK, err := strconv.Atoi(getEnv("TOP_K", "5"))
	if err != nil {
		return nil, fmt.Errorf("TOP_K must be a valid integer: %w", err)
	}
	if topK < 1 {
		topK = 1
	}
	if topK > 20 {
		topK = 20
	}
	cfg.TopK = topK

	for _, dir := range []string{filepath.Dir(cfg.DBPath), filepath.Dir(cfg.IndexPath), cfg.UploadDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
