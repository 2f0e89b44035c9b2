package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Cache stores successful completions keyed by prompt.
type Cache interface {
	// GetCompletion retrieves a cached completion by key.
	// Returns nil if not found.
	GetCompletion(ctx context.Context, key string) (*Completion, error)

	// SetCompletion stores a completion with TTL.
	SetCompletion(ctx context.Context, key string, completion *Completion, ttl time.Duration) error

	// Purge removes every cached completion.
	Purge(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}

// Completion is a cached backend response.
type Completion struct {
	Text    string `json:"text"`
	Backend string `json:"backend"`
}

// GenerateCacheKey derives a stable key from the backend mode, the rendered
// prompt and the sampling temperature.
func GenerateCacheKey(mode, prompt string, temperature float64) string {
	h := sha256.New()
	h.Write([]byte(mode))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(temperature, 'f', -1, 64)))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}
