package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/wallfeed/internal/state"
)

const (
	defaultRetryInterval = 2 * time.Second
	maxBackoff           = 30 * time.Second
	maxFirstPageAttempts = 5
)

// StartLoader launches a goroutine that loads the first page with retries.
// It returns immediately.
func StartLoader(ctx context.Context, store *state.Store, interval time.Duration, log *logrus.Entry) {
	go func() {
		if err := LoadFirstPage(ctx, store, interval, maxFirstPageAttempts); err != nil && ctx.Err() == nil {
			log.WithError(err).Warn("first page unavailable; use refresh to retry")
		}
	}()
}

// LoadFirstPage fetches page 1, retrying failures with exponential backoff
// up to attempts times. A fetch already in flight counts as success: the
// other caller owns the result.
func LoadFirstPage(ctx context.Context, store *state.Store, interval time.Duration, attempts int) error {
	if interval <= 0 {
		interval = defaultRetryInterval
	}
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for failures := 0; failures < attempts; failures++ {
		var started bool
		started, err = store.FetchFirstPage(ctx)
		if err == nil || !started {
			return nil
		}
		if failures == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(calculateBackoff(failures, interval)):
		}
	}
	return err
}

// calculateBackoff returns the delay after the given number of consecutive
// failures, doubling from base and capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
