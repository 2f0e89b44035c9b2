package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"content-assistant/internal/cache"
	"content-assistant/internal/retry"
)

// Invoker is what content operations need from the LLM layer.
type Invoker interface {
	Invoke(ctx context.Context, prompt string, temperature float64) Result
}

// Options configures a FallbackInvoker.
type Options struct {
	// ForceFallback skips the primary backend entirely.
	ForceFallback bool
	// PrimaryRetries is the number of extra primary attempts on transient
	// errors. Zero means a single attempt.
	PrimaryRetries int
	RetryBase      time.Duration
	CacheTTL       time.Duration
}

const (
	defaultRetryBase = 500 * time.Millisecond
	defaultCacheTTL  = time.Hour
)

// FallbackInvoker tries the primary backend and falls back to the secondary
// one on any failure. It never returns an error: every outcome is a Result.
type FallbackInvoker struct {
	primary   Completer
	secondary Completer
	cache     cache.Cache
	opts      Options
	log       *slog.Logger
}

// NewFallbackInvoker wires the two tiers. Either backend may be nil: a nil
// primary behaves like a failing one, a nil secondary like one that could not
// be initialized. A nil cache disables caching.
func NewFallbackInvoker(log *slog.Logger, primary, secondary Completer, c cache.Cache, opts Options) *FallbackInvoker {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = defaultRetryBase
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.PrimaryRetries < 0 {
		opts.PrimaryRetries = 0
	}
	return &FallbackInvoker{
		primary:   primary,
		secondary: secondary,
		cache:     c,
		opts:      opts,
		log:       log,
	}
}

func (i *FallbackInvoker) Invoke(ctx context.Context, prompt string, temperature float64) Result {
	temperature = clampTemperature(temperature)

	mode := "primary"
	if i.opts.ForceFallback {
		mode = "fallback"
	}
	key := cache.GenerateCacheKey(mode, prompt, temperature)
	if cached, err := i.cache.GetCompletion(ctx, key); err != nil {
		i.log.Warn("cache lookup failed", "err", err)
	} else if cached != nil {
		i.log.Debug("cache hit", "backend", cached.Backend)
		return Success(cached.Text, cached.Backend)
	}

	res := i.invoke(ctx, prompt, temperature)
	if i.cacheable(res) {
		if err := i.cache.SetCompletion(ctx, key, &cache.Completion{Text: res.Text, Backend: res.Backend}, i.opts.CacheTTL); err != nil {
			i.log.Warn("failed to cache completion", "err", err)
		}
	}
	return res
}

// cacheable reports whether res came from the backend the current mode
// targets. Fallback answers are never stored under the primary key.
func (i *FallbackInvoker) cacheable(res Result) bool {
	if !res.OK() {
		return false
	}
	target := i.primary
	if i.opts.ForceFallback {
		target = i.secondary
	}
	return target != nil && res.Backend == target.Name()
}

func (i *FallbackInvoker) invoke(ctx context.Context, prompt string, temperature float64) Result {
	primaryTried := false
	switch {
	case i.opts.ForceFallback:
		i.log.Info("using fallback model (forced)")
	case i.primary == nil:
		primaryTried = true
		i.log.Warn("no primary backend configured, using fallback model")
	default:
		primaryTried = true
		text, err := i.callPrimary(ctx, prompt, temperature)
		if err == nil {
			return Success(text, i.primary.Name())
		}
		i.log.Warn("primary LLM call failed", "backend", i.primary.Name(), "err", err)
	}

	if i.secondary == nil {
		i.log.Error("no fallback backend configured")
		return Fail(FailureSecondaryInit, "no fallback backend configured")
	}
	text, err := i.secondary.Complete(ctx, prompt, temperature)
	if err == nil {
		return Success(text, i.secondary.Name())
	}
	if errors.Is(err, ErrBackendInit) {
		return Fail(FailureSecondaryInit, err.Error())
	}
	i.log.Error("fallback LLM call failed", "backend", i.secondary.Name(), "err", err)
	if primaryTried {
		return Fail(FailureBothBackendsFailed, err.Error())
	}
	return Fail(FailureSecondaryRuntime, err.Error())
}

// callPrimary makes one attempt plus up to PrimaryRetries more for transient
// errors.
func (i *FallbackInvoker) callPrimary(ctx context.Context, prompt string, temperature float64) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= i.opts.PrimaryRetries; attempt++ {
		if attempt > 0 {
			delay := retry.Jitter(retry.ExponentialBackoff(attempt-1, i.opts.RetryBase), 0.3)
			i.log.Warn("retrying primary after transient error", "attempt", attempt, "delay", delay, "err", lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}
		text, err := i.primary.Complete(ctx, prompt, temperature)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !IsTransient(err) {
			break
		}
	}
	return "", lastErr
}

func clampTemperature(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
