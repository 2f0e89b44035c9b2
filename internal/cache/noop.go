package cache

import (
	"context"
	"time"
)

// NoOpCache is a cache implementation that does nothing.
// Used when caching is disabled or Redis is unavailable - all operations
// succeed but nothing is stored (always cache miss).
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// GetCompletion always returns nil (cache miss)
func (c *NoOpCache) GetCompletion(ctx context.Context, key string) (*Completion, error) {
	return nil, nil
}

// SetCompletion does nothing and always succeeds
func (c *NoOpCache) SetCompletion(ctx context.Context, key string, completion *Completion, ttl time.Duration) error {
	return nil
}

func (c *NoOpCache) Purge(ctx context.Context) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}
