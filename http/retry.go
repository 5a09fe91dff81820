package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/linkopp"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

var _ linkopp.Fetcher = (*RetryFetcher)(nil)

// RetryFetcher retries failed fetches with the given backoff delays.
// ENOTFOUND and context errors are returned without retrying.
type RetryFetcher struct {
	fetcher linkopp.Fetcher
	delays  []time.Duration
	logger  *slog.Logger
}

// NewRetryFetcher wraps fetcher. A nil logger discards retry messages.
func NewRetryFetcher(fetcher linkopp.Fetcher, delays []time.Duration, logger *slog.Logger) *RetryFetcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RetryFetcher{fetcher: fetcher, delays: delays, logger: logger}
}

// Fetch makes up to len(delays)+1 attempts.
func (r *RetryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	maxAttempts := len(r.delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		body, err := r.fetcher.Fetch(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !retryable(err) || attempt >= maxAttempts-1 {
			break
		}

		r.logger.Warn("retrying fetch", "url", url, "attempt", attempt+2, "err", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(r.delays[attempt]):
		}
	}

	return "", lastErr
}

// Close closes the wrapped fetcher.
func (r *RetryFetcher) Close() error {
	return r.fetcher.Close()
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return linkopp.ErrorCode(err) != linkopp.ENOTFOUND
}
