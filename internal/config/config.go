package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration read from the environment.
type Config struct {
	// Server
	Port       int    `env:"PORT" envDefault:"8080"`
	HealthPort int    `env:"HEALTH_PORT" envDefault:"8081"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes

	// Backend selection. Only the literal "true" enables it.
	ForceFallbackRaw string `env:"FORCE_FALLBACK" envDefault:"false"`

	// Primary (hosted) LLM
	OpenAIKey      string        `env:"OPENAI_API_KEY"`
	LLMModel       string        `env:"LLM_MODEL" envDefault:"gpt-3.5-turbo"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	PrimaryRetries int           `env:"PRIMARY_RETRIES" envDefault:"0"`
	RetryBase      time.Duration `env:"RETRY_BASE" envDefault:"500ms"`

	// Secondary (local) LLM, any OpenAI-compatible server
	LocalLLMURL     string        `env:"LOCAL_LLM_URL" envDefault:"http://localhost:11434/v1/"`
	LocalLLMModel   string        `env:"LOCAL_LLM_MODEL" envDefault:"flan-t5-base"`
	LocalLLMKey     string        `env:"LOCAL_LLM_API_KEY"`
	LocalLLMTimeout time.Duration `env:"LOCAL_LLM_TIMEOUT" envDefault:"120s"`

	// Operations
	MaxInputWords int `env:"MAX_INPUT_WORDS" envDefault:"0"`

	// Cache
	CacheProvider string        `env:"CACHE_PROVIDER" envDefault:"none"` // "none" or "redis"
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"1h"`

	// Async jobs
	DBURL    string `env:"DB_URL"`
	QueueURL string `env:"QUEUE_URL"`
}

// ForceFallback reports whether the primary backend should be skipped.
func (c Config) ForceFallback() bool {
	return c.ForceFallbackRaw == "true"
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
