package backend

import (
	"math/rand"
	"time"
)

// calculateBackoff calculates exponential backoff with jitter. Jitter keeps
// simultaneous retries from hammering the backend in lockstep.
func calculateBackoff(baseDelay time.Duration, attempt int, maxDelay time.Duration) time.Duration {
	delay := baseDelay * time.Duration(1<<uint(attempt))
	if delay > maxDelay {
		delay = maxDelay
	}

	jitter := time.Duration(rand.Int63n(int64(delay / 4)))
	return delay + jitter
}
