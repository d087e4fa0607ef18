package core

import "context"

// RateLimiter throttles paid operations per key
type RateLimiter interface {
	// Allow reports whether one more operation may run for key right now
	Allow(ctx context.Context, key string) (bool, error)
}
