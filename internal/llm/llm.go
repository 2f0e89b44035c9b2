package llm

import (
	"context"
	"errors"
	"net"

	"github.com/openai/openai-go/v3"
)

// Completer is a text-completion capability. Hosted and local backends both
// satisfy it so the invoker can treat them uniformly.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
	Name() string
}

var (
	// ErrBackendInit marks a backend that could not be initialized.
	ErrBackendInit = errors.New("backend initialization failed")
	// ErrEmptyCompletion is returned when a backend answers without content.
	ErrEmptyCompletion = errors.New("no choices returned")
)

// IsTransient reports whether err is worth retrying: rate limits, server
// errors and network failures. Cancellation, init failures and other 4xx
// responses are permanent.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrBackendInit) || errors.Is(err, ErrEmptyCompletion) {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
