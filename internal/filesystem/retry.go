package filesystem

import (
	"context"
	"errors"
	"os"
	"syscall"
	"time"

	"raw-loader/internal/logging"
)

// RetryConfig configures retry behavior for filesystem operations
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns sensible defaults for NFS retry behavior
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// isNFSStaleError checks if an error is an NFS stale file handle error
func isNFSStaleError(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && errno == syscall.ESTALE
}

// StatWithRetry performs os.Stat, retrying stale file handle errors.
func StatWithRetry(ctx context.Context, path string, config RetryConfig) (os.FileInfo, error) {
	return withRetry(ctx, "stat", path, config, os.Stat)
}

// OpenWithRetry performs os.Open, retrying stale file handle errors.
func OpenWithRetry(ctx context.Context, path string, config RetryConfig) (*os.File, error) {
	return withRetry(ctx, "open", path, config, os.Open)
}

func withRetry[T any](ctx context.Context, op, path string, config RetryConfig, fn func(string) (T, error)) (T, error) {
	backoff := config.InitialBackoff
	var zero T

	for attempt := 0; ; attempt++ {
		v, err := fn(path)
		if err == nil {
			if attempt > 0 {
				logging.Info("NFS %s succeeded on retry %d for %s", op, attempt, path)
				observeOutcome(op, "success")
			}
			return v, nil
		}
		if !isNFSStaleError(err) {
			return zero, err
		}

		if o := defaultObserver; o != nil {
			o.ObserveStaleError(op)
		}
		if attempt >= config.MaxRetries {
			logging.Warn("NFS %s failed after %d retries for %s: %v", op, config.MaxRetries, path, err)
			observeOutcome(op, "failure")
			return zero, err
		}

		logging.Debug("NFS %s stale file handle for %s, retrying in %v (attempt %d/%d)",
			op, path, backoff, attempt+1, config.MaxRetries)
		select {
		case <-ctx.Done():
			observeOutcome(op, "failure")
			return zero, err
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > config.MaxBackoff {
			backoff = config.MaxBackoff
		}
	}
}

func observeOutcome(op, outcome string) {
	if o := defaultObserver; o != nil {
		o.ObserveRetryOutcome(op, outcome)
	}
}
