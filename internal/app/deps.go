package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/openai/openai-go/v3"

	"content-assistant/internal/assistant"
	"content-assistant/internal/cache"
	"content-assistant/internal/config"
	"content-assistant/internal/llm"
	"content-assistant/internal/queue"
	"content-assistant/internal/store"
)

// Deps bundles common runtime dependencies for the binaries.
type Deps struct {
	Config    config.Config
	Log       *slog.Logger
	Cache     cache.Cache
	Local     *llm.LocalClient
	Invoker   llm.Invoker
	Assistant *assistant.Service
	Store     store.Store
	Queue     queue.Queue
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return config.Load(), nil
}

// Build wires the cache, both LLM backends, the fallback invoker and the
// assistant service. Store and Queue are left nil.
func Build(cfg config.Config, log *slog.Logger) (Deps, error) {
	c := buildCache(cfg, log)
	primary, err := buildPrimary(cfg, log)
	if err != nil {
		_ = c.Close()
		return Deps{}, fmt.Errorf("failed to initialize primary LLM: %w", err)
	}
	local, err := llm.NewLocalClient(log, cfg.LocalLLMURL, cfg.LocalLLMModel, cfg.LocalLLMKey, cfg.LocalLLMTimeout)
	if err != nil {
		_ = c.Close()
		return Deps{}, fmt.Errorf("failed to initialize local LLM: %w", err)
	}

	var p llm.Completer
	if primary != nil {
		p = primary
	}
	invoker := llm.NewFallbackInvoker(log, p, local, c, llm.Options{
		ForceFallback:  cfg.ForceFallback(),
		PrimaryRetries: cfg.PrimaryRetries,
		RetryBase:      cfg.RetryBase,
		CacheTTL:       cfg.CacheTTL,
	})
	if cfg.ForceFallback() {
		log.Info("forced fallback enabled; primary LLM will not be called", "local_model", cfg.LocalLLMModel)
	}

	return Deps{
		Config:    cfg,
		Log:       log,
		Cache:     c,
		Local:     local,
		Invoker:   invoker,
		Assistant: assistant.New(log, invoker, assistant.Options{MaxInputWords: cfg.MaxInputWords}),
	}, nil
}

// BuildServer wires Build plus the job store and queue. Both are optional;
// without DB_URL and QUEUE_URL async jobs are disabled.
func BuildServer(cfg config.Config, log *slog.Logger) (Deps, error) {
	deps, err := Build(cfg, log)
	if err != nil {
		return Deps{}, err
	}
	if cfg.DBURL == "" || cfg.QueueURL == "" {
		log.Warn("DB_URL or QUEUE_URL not set; async jobs disabled")
		return deps, nil
	}
	if err := deps.attachJobs(cfg, log); err != nil {
		_ = deps.Close()
		return Deps{}, err
	}
	return deps, nil
}

// BuildWorker is like BuildServer but requires the store and queue.
func BuildWorker(cfg config.Config, log *slog.Logger) (Deps, error) {
	if cfg.DBURL == "" {
		return Deps{}, errors.New("DB_URL is required for the worker")
	}
	if cfg.QueueURL == "" {
		return Deps{}, errors.New("QUEUE_URL is required for the worker")
	}
	deps, err := Build(cfg, log)
	if err != nil {
		return Deps{}, err
	}
	if err := deps.attachJobs(cfg, log); err != nil {
		_ = deps.Close()
		return Deps{}, err
	}
	return deps, nil
}

func (d *Deps) attachJobs(cfg config.Config, log *slog.Logger) error {
	st, err := store.NewPostgres(cfg.DBURL)
	if err != nil {
		return fmt.Errorf("failed to initialize Postgres: %w", err)
	}
	log.Info("using Postgres store")
	nc, err := nats.Connect(cfg.QueueURL, nats.Name("content-assistant"))
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Info("using NATS queue")
	d.Store = st
	d.Queue = queue.NewNATS(log, nc)
	return nil
}

// JobsEnabled reports whether the store and queue are wired.
func (d Deps) JobsEnabled() bool {
	return d.Store != nil && d.Queue != nil
}

// Close releases every wired resource.
func (d Deps) Close() error {
	var errs []error
	if d.Queue != nil {
		errs = append(errs, d.Queue.Close())
	}
	if d.Store != nil {
		errs = append(errs, d.Store.Close())
	}
	if d.Local != nil {
		errs = append(errs, d.Local.Close())
	}
	if d.Cache != nil {
		errs = append(errs, d.Cache.Close())
	}
	return errors.Join(errs...)
}

func buildCache(cfg config.Config, log *slog.Logger) cache.Cache {
	switch cfg.CacheProvider {
	case "redis":
		rc, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("redis unavailable; caching disabled", "addr", cfg.RedisAddr, "err", err)
			return cache.NewNoOpCache()
		}
		log.Info("using Redis completion cache", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		return rc
	case "", "none":
		return cache.NewNoOpCache()
	default:
		log.Warn("unknown CACHE_PROVIDER; caching disabled", "provider", cfg.CacheProvider)
		return cache.NewNoOpCache()
	}
}

// buildPrimary returns nil when no API key is configured; the invoker then
// treats every primary call as failed and goes straight to the local model.
func buildPrimary(cfg config.Config, log *slog.Logger) (*llm.OpenAIClient, error) {
	if cfg.OpenAIKey == "" {
		log.Warn("OPENAI_API_KEY not set; primary LLM disabled")
		return nil, nil
	}
	client, err := llm.NewOpenAIClient(cfg.OpenAIKey, openai.ChatModel(cfg.LLMModel), cfg.LLMTimeout)
	if err != nil {
		return nil, err
	}
	log.Info("using OpenAI LLM client", "model", cfg.LLMModel)
	return client, nil
}

// PurgeCache removes every cached completion.
func (d Deps) PurgeCache(ctx context.Context) error {
	if d.Cache == nil {
		return nil
	}
	return d.Cache.Purge(ctx)
}
