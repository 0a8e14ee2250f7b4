package config

import (
	"log/slog"
	"path/filepath"
	"testing"
)

// setTestDirs points the path-valued settings at a temp dir so Load's
// directory creation does not touch the working tree.
func setTestDirs(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DB_PATH", filepath.Join(dir, "data", "docqa.db"))
	t.Setenv("INDEX_PATH", filepath.Join(dir, "data", "vectors.index"))
	t.Setenv("UPLOAD_DIR", filepath.Join(dir, "uploads"))
}

func TestLoadDefaults(t *testing.T) {
	setTestDirs(t)
	t.Setenv("EMBEDDING_VECTOR_SIZE", "384")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.APIPort != "8000" {
		t.Errorf("APIPort = %q, want 8000", cfg.APIPort)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want text", cfg.LogFormat)
	}
	if cfg.EmbeddingVectorSize != 384 {
		t.Errorf("EmbeddingVectorSize = %d, want 384", cfg.EmbeddingVectorSize)
	}
	if cfg.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.TopK)
	}
}

func TestLoadVectorSizeRequired(t *testing.T) {
	setTestDirs(t)
	t.Setenv("EMBEDDING_VECTOR_SIZE", "")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for missing EMBEDDING_VECTOR_SIZE")
	}
}

func TestLoadVectorSizeValidation(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "not a number", value: "abc"},
		{name: "zero", value: "0"},
		{name: "negative", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setTestDirs(t)
			t.Setenv("EMBEDDING_VECTOR_SIZE", tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() expected error for EMBEDDING_VECTOR_SIZE=%q", tt.value)
			}
		})
	}
}

func TestLoadTopKClamping(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "below minimum", value: "0", want: 1},
		{name: "within range", value: "8", want: 8},
		{name: "above maximum", value: "100", want: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setTestDirs(t)
			t.Setenv("EMBEDDING_VECTOR_SIZE", "384")
			t.Setenv("TOP_K", tt.value)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.TopK != tt.want {
				t.Errorf("TopK = %d, want %d", cfg.TopK, tt.want)
			}
		})
	}
}

func TestLoadLogLevel(t *testing.T) {
	tests := []struct {
		value   string
		want    slog.Level
		wantErr bool
	}{
		{value: "debug", want: slog.LevelDebug},
		{value: "WARN", want: slog.LevelWarn},
		{value: "warning", want: slog.LevelWarn},
		{value: "error", want: slog.LevelError},
		{value: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			setTestDirs(t)
			t.Setenv("EMBEDDING_VECTOR_SIZE", "384")
			t.Setenv("LOG_LEVEL", tt.value)

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error for LOG_LEVEL=%q", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.LogLevel != tt.want {
				t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, tt.want)
			}
		})
	}
}
