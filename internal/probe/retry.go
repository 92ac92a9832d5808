package probe

import (
	"context"
	"time"

	"github.com/avast/retry-go"
)

// Defaults for the retrying wrapper.
const (
	defaultAttempts = 3
	defaultDelay    = 50 * time.Millisecond
)

// Retrying wraps a Prober and retries probes that fail with an evaluation
// error. A definitive wrong-password result is never retried.
type Retrying struct {
	inner    Prober
	attempts uint
	delay    time.Duration
}

// WithRetry wraps p so transient probe failures are retried up to attempts
// times. Zero attempts selects the default.
func WithRetry(p Prober, attempts uint) *Retrying {
	if attempts == 0 {
		attempts = defaultAttempts
	}

	return &Retrying{inner: p, attempts: attempts, delay: defaultDelay}
}

// Try implements Prober.
func (r *Retrying) Try(ctx context.Context, candidate string) (bool, error) {
	var found bool

	err := retry.Do(
		func() error {
			ok, err := r.inner.Try(ctx, candidate)
			if err != nil {
				return err
			}

			found = ok

			return nil
		},
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return false, err
	}

	return found, nil
}
