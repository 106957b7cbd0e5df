package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"
)

type recordingObserver struct {
	mu       sync.Mutex
	stale    int
	outcomes []string
}

func (r *recordingObserver) ObserveStaleError(string) {
	r.mu.Lock()
	r.stale++
	r.mu.Unlock()
}

func (r *recordingObserver) ObserveRetryOutcome(op, outcome string) {
	r.mu.Lock()
	r.outcomes = append(r.outcomes, op+":"+outcome)
	r.mu.Unlock()
}

func useObserver(t *testing.T) *recordingObserver {
	t.Helper()
	obs := &recordingObserver{}
	SetObserver(obs)
	t.Cleanup(func() { SetObserver(nil) })
	return obs
}

var fastRetry = RetryConfig{MaxRetries: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}

func staleErr() error {
	return &fs.PathError{Op: "stat", Path: "x", Err: syscall.ESTALE}
}

func TestIsNFSStaleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"wrapped ESTALE", staleErr(), true},
		{"bare ESTALE", syscall.ESTALE, true},
		{"not exist", os.ErrNotExist, false},
		{"other errno", syscall.EACCES, false},
	}
	for _, tt := range tests {
		if got := isNFSStaleError(tt.err); got != tt.want {
			t.Errorf("%s: isNFSStaleError() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWithRetryRecoversFromStale(t *testing.T) {
	obs := useObserver(t)
	calls := 0
	got, err := withRetry(context.Background(), "stat", "x", fastRetry, func(string) (int, error) {
		calls++
		if calls < 3 {
			return 0, staleErr()
		}
		return 42, nil
	})

	if err != nil || got != 42 {
		t.Fatalf("withRetry() = %d, %v", got, err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if obs.stale != 2 || len(obs.outcomes) != 1 || obs.outcomes[0] != "stat:success" {
		t.Errorf("observer = %d stale, %v", obs.stale, obs.outcomes)
	}
}

func TestWithRetryGivesUp(t *testing.T) {
	obs := useObserver(t)
	calls := 0
	_, err := withRetry(context.Background(), "open", "x", fastRetry, func(string) (int, error) {
		calls++
		return 0, staleErr()
	})

	if !isNFSStaleError(err) {
		t.Errorf("err = %v, want ESTALE", err)
	}
	if calls != fastRetry.MaxRetries+1 {
		t.Errorf("calls = %d, want %d", calls, fastRetry.MaxRetries+1)
	}
	if len(obs.outcomes) != 1 || obs.outcomes[0] != "open:failure" {
		t.Errorf("outcomes = %v", obs.outcomes)
	}
}

func TestWithRetryOtherErrorsImmediate(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), "stat", "x", fastRetry, func(string) (int, error) {
		calls++
		return 0, os.ErrPermission
	})
	if !errors.Is(err, os.ErrPermission) || calls != 1 {
		t.Errorf("err = %v after %d calls, want permission error after 1", err, calls)
	}
}

func TestWithRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	slow := RetryConfig{MaxRetries: 5, InitialBackoff: time.Hour, MaxBackoff: time.Hour}
	_, err := withRetry(ctx, "stat", "x", slow, func(string) (int, error) {
		calls++
		return 0, staleErr()
	})
	if err == nil || calls != 1 {
		t.Errorf("err = %v after %d calls, want error after 1", err, calls)
	}
}

func TestStatAndOpenWithRetry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.CR2")
	if err := os.WriteFile(path, []byte("raw"), 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := StatWithRetry(context.Background(), path, DefaultRetryConfig())
	if err != nil || info.Size() != 3 {
		t.Fatalf("StatWithRetry() = %v, %v", info, err)
	}

	f, err := OpenWithRetry(context.Background(), path, DefaultRetryConfig())
	if err != nil {
		t.Fatalf("OpenWithRetry() error = %v", err)
	}
	f.Close()

	if _, err := StatWithRetry(context.Background(), path+".missing", DefaultRetryConfig()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
}
