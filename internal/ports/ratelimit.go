package ports

import (
	"context"
	"time"
)

// RateLimiter counts attempts per key within a sliding window
type RateLimiter interface {
	// Allow records one attempt and reports whether the key stays within
	// limit attempts per window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
