package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "FORCE_FALLBACK", "LLM_MODEL", "LLM_TIMEOUT", "PRIMARY_RETRIES",
		"LOCAL_LLM_URL", "LOCAL_LLM_MODEL", "CACHE_PROVIDER", "CACHE_TTL", "MAX_INPUT_WORDS",
	} {
		// Setenv registers the restore, Unsetenv exercises the defaults.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, 8080},
		{"HealthPort", cfg.HealthPort, 8081},
		{"LogLevel", cfg.LogLevel, "info"},
		{"ForceFallback", cfg.ForceFallback(), false},
		{"LLMModel", cfg.LLMModel, "gpt-3.5-turbo"},
		{"LLMTimeout", cfg.LLMTimeout, 30 * time.Second},
		{"PrimaryRetries", cfg.PrimaryRetries, 0},
		{"LocalLLMURL", cfg.LocalLLMURL, "http://localhost:11434/v1/"},
		{"LocalLLMModel", cfg.LocalLLMModel, "flan-t5-base"},
		{"CacheProvider", cfg.CacheProvider, "none"},
		{"CacheTTL", cfg.CacheTTL, time.Hour},
		{"MaxInputWords", cfg.MaxInputWords, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s=%v, got %v", tt.name, tt.expected, tt.got)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PRIMARY_RETRIES", "2")
	t.Setenv("LOCAL_LLM_MODEL", "llama3.2")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.LogLevel)
	}
	if cfg.PrimaryRetries != 2 {
		t.Errorf("expected 2 retries, got %d", cfg.PrimaryRetries)
	}
	if cfg.LocalLLMModel != "llama3.2" {
		t.Errorf("expected local model 'llama3.2', got %s", cfg.LocalLLMModel)
	}
}

func TestForceFallback(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"false", false},
		{"TRUE", false},
		{"True", false},
		{"1", false},
		{"yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("FORCE_FALLBACK", tt.value)
			if got := Load().ForceFallback(); got != tt.want {
				t.Errorf("FORCE_FALLBACK=%q: got %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
