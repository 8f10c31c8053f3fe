package screening

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffWithinBounds(t *testing.T) {
	base := 500 * time.Millisecond
	max := 60 * time.Second

	for n := 0; n < 6; n++ {
		for i := 0; i < 50; i++ {
			d := Backoff(base, max, n)
			lower := base * (1 << n)
			assert.GreaterOrEqual(t, d, lower, "n=%d", n)
			assert.LessOrEqual(t, d, lower+time.Second, "n=%d", n)
		}
	}
}

func TestBackoffNeverExceedsCap(t *testing.T) {
	base := time.Second
	max := 10 * time.Second

	for n := 0; n < 40; n++ {
		d := Backoff(base, max, n)
		assert.LessOrEqual(t, d, max, "n=%d", n)
	}
}

func TestBackoffDefensiveInputs(t *testing.T) {
	assert.Greater(t, Backoff(0, time.Minute, 0), time.Duration(0))
	assert.LessOrEqual(t, Backoff(time.Second, time.Minute, -5), 2*time.Second)
}
