package retry

import (
	"math/rand/v2"
	"time"
)

// ExponentialBackoff returns delay based on attempt number.
// The delay doubles with each attempt: base * 2^attempt
func ExponentialBackoff(attempt int, base time.Duration) time.Duration {
	return base * (1 << attempt)
}

// Jitter spreads d by up to ±fraction so that retries from several callers
// do not line up. fraction is clamped to [0, 1].
func Jitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 || d <= 0 {
		return d
	}
	if fraction > 1 {
		fraction = 1
	}
	spread := float64(d) * fraction
	return time.Duration(float64(d) + (rand.Float64()*2-1)*spread)
}
