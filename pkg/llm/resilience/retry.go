package resilience

import (
	"context"
	"log"
	"math"
	"time"
)

// RetryConfig tunes the rate-limit retry loop.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	ExponentialBase float64
}

// DefaultRetryConfig returns the service defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		InitialDelay:    1 * time.Second,
		MaxDelay:        60 * time.Second,
		ExponentialBase: 2,
	}
}

// Retrier re-runs a call on rate-limit errors with exponential backoff,
// honoring provider-suggested delays when the error embeds one. Any other
// error is returned immediately without a second attempt. Attempts are
// strictly sequential; parallel retries would amplify the rate limiting the
// backoff is trying to escape.
type Retrier struct {
	config RetryConfig
	logger *log.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewRetrier(config RetryConfig, logger *log.Logger) *Retrier {
	if config.MaxAttempts <= 0 {
		config = DefaultRetryConfig()
	}
	return &Retrier{
		config: config,
		logger: logger,
		sleep:  sleepContext,
	}
}

// Do executes fn up to MaxAttempts times. Only resource-exhaustion errors
// are retried; the last error is returned when attempts run out.
func (r *Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if !IsResourceExhausted(lastErr) {
			return lastErr
		}

		// Don't sleep on the last attempt
		if attempt == r.config.MaxAttempts-1 {
			r.logger.Printf("[RETRY] Rate limit retry exhausted after %d attempts", r.config.MaxAttempts)
			return lastErr
		}

		delay := r.delayFor(lastErr, attempt)
		r.logger.Printf("[RETRY] Rate limited (attempt %d/%d). Retrying in %.1fs",
			attempt+1, r.config.MaxAttempts, delay.Seconds())

		if err := r.sleep(ctx, delay); err != nil {
			return err
		}
	}

	return lastErr
}

// delayFor prefers the provider-suggested wait, capped at MaxDelay;
// otherwise falls back to exponential backoff.
func (r *Retrier) delayFor(err error, attempt int) time.Duration {
	if suggested, ok := ExtractRetryDelay(err); ok {
		d := time.Duration(suggested * float64(time.Second))
		if d > r.config.MaxDelay {
			return r.config.MaxDelay
		}
		return d
	}

	backoff := float64(r.config.InitialDelay) * math.Pow(r.config.ExponentialBase, float64(attempt))
	if backoff > float64(r.config.MaxDelay) {
		return r.config.MaxDelay
	}
	return time.Duration(backoff)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
