// Package filesystem retries file access that fails with a stale NFS file
// handle.
//
// RAW archives often live on network mounts where ESTALE shows up after the
// server re-exports a share. [StatWithRetry] and [OpenWithRetry] retry only
// that error, with capped exponential backoff, and give up early when the
// context is cancelled. Every other error is returned immediately.
//
// Retry outcomes go to the [Observer] installed with [SetObserver]; the
// metrics package provides one.
package filesystem
