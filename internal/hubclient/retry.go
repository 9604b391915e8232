package hubclient

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/trackersetup/internal/logging"
	"github.com/muurk/trackersetup/internal/onboarding"
)

// RetryOptions configures DialWithRetry
type RetryOptions struct {
	MaxRetries            int
	RetryDelay            time.Duration
	MaxRetryDelay         time.Duration
	UseExponentialBackoff bool
}

// DefaultRetryOptions returns the options used by the CLI
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries:            3,
		RetryDelay:            500 * time.Millisecond,
		MaxRetryDelay:         5 * time.Second,
		UseExponentialBackoff: true,
	}
}

// DialWithRetry dials the hub, retrying network failures with backoff
func DialWithRetry(ctx context.Context, url string, feed *onboarding.Feed, opts RetryOptions) (*Client, error) {
	var lastErr error
	delay := opts.RetryDelay

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			logging.Debug("Retrying hub connection",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fromContext(ctx.Err())
			}
			if opts.UseExponentialBackoff {
				delay *= 2
				if delay > opts.MaxRetryDelay {
					delay = opts.MaxRetryDelay
				}
			}
		}

		client, err := Dial(ctx, url, feed)
		if err == nil {
			return client, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			break
		}
	}
	return nil, lastErr
}
