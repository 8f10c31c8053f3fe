package screening

import (
	"math/rand"
	"time"
)

const maxJitter = time.Second

// Backoff returns the delay before the next attempt after n consecutive
// failures: min(base*2^n + jitter(0,1s), max). Pure apart from the jitter, so
// it can be tested against its bounds without any timer.
func Backoff(base, max time.Duration, n int) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	if n < 0 {
		n = 0
	}

	exp := base
	for i := 0; i < n; i++ {
		exp *= 2
		if exp >= max {
			return max
		}
	}

	d := exp + time.Duration(rand.Int63n(int64(maxJitter)))
	if d > max {
		return max
	}
	return d
}
