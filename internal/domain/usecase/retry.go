package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type Publisher interface {
	Publish(ctx context.Context, body json.RawMessage) error
}

type Backoff struct {
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int
}

func DefaultBackoff() Backoff {
	return Backoff{
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		MaxAttempts: 5,
	}
}

// publishWithRetry doubles the delay after each failed attempt up to
// MaxDelay and returns the last publish error.
func publishWithRetry(ctx context.Context, pub Publisher, msg json.RawMessage, b Backoff) error {
	var lastErr error

	for attempt := 1; attempt <= b.MaxAttempts; attempt++ {
		if err := pub.Publish(ctx, msg); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == b.MaxAttempts {
			break
		}

		backoff := b.BaseDelay << (attempt - 1)
		if backoff > b.MaxDelay {
			backoff = b.MaxDelay
		}

		select {
		case <-time.After(backoff):

		case <-ctx.Done():
			return fmt.Errorf("publish canceled: %w", ctx.Err())
		}
	}

	return lastErr
}
