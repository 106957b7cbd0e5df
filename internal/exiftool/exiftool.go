package exiftool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"sync"
	"time"

	"raw-loader/internal/logging"
)

var log = logging.Prefixed("exiftool")

// DefaultBinary is the executable looked up on PATH.
const DefaultBinary = "exiftool"

// probeTimeout bounds the one-time `-ver` availability check.
const probeTimeout = 5 * time.Second

// Tag names an embedded image stored in a RAW file.
type Tag string

const (
	// ThumbnailImage is the small IFD1 thumbnail, typically 160x120.
	ThumbnailImage Tag = "ThumbnailImage"
	// PreviewImage is the medium preview, typically a few hundred KB.
	PreviewImage Tag = "PreviewImage"
	// JpgFromRaw is a full-size JPEG render some cameras embed.
	JpgFromRaw Tag = "JpgFromRaw"
)

var (
	// ErrUnavailable means exiftool is not installed.
	ErrUnavailable = errors.New("exiftool not available")
	// ErrTagAbsent means the file does not carry the requested image.
	ErrTagAbsent = errors.New("embedded image tag not present")
)

var (
	probeMu    sync.Mutex
	probeCache = map[string]bool{}
)

// Probe runs `binary -ver` and reports whether it succeeded.
func Probe(ctx context.Context, binary string) bool {
	if _, err := exec.LookPath(binary); err != nil {
		log.Debug("probe: %s not found: %v", binary, err)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, binary, "-ver").Output()
	if err != nil {
		log.Debug("probe: %s -ver failed: %v", binary, err)
		return false
	}
	log.Debug("version: %s", strings.TrimSpace(string(out)))
	return true
}

// ProbeOnce probes binary the first time it is asked about and caches the
// answer for the life of the process.
func ProbeOnce(binary string) bool {
	if binary == "" {
		binary = DefaultBinary
	}
	probeMu.Lock()
	defer probeMu.Unlock()

	if available, ok := probeCache[binary]; ok {
		return available
	}
	available := Probe(context.Background(), binary)
	probeCache[binary] = available
	return available
}

// Tool extracts embedded images. It holds no per-call state and is safe for
// concurrent use.
type Tool struct {
	binary    string
	available bool
}

// New returns a Tool. available is the process-wide capability flag,
// normally the result of ProbeOnce.
func New(binary string, available bool) *Tool {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Tool{binary: binary, available: available}
}

// Available reports the capability flag the Tool was built with.
func (t *Tool) Available() bool {
	return t != nil && t.available
}

// Extract returns the raw bytes of tag from path.
func (t *Tool) Extract(ctx context.Context, path string, tag Tag) ([]byte, error) {
	if !t.Available() {
		return nil, ErrUnavailable
	}

	cmd := exec.CommandContext(ctx, t.binary, "-b", "-"+string(tag), path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// the tool vanished after the probe
		var execErr *exec.Error
		if errors.As(err, &execErr) || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", t.binary, ErrUnavailable)
		}
		return nil, fmt.Errorf("exiftool -%s failed: %w - %s", tag, err, strings.TrimSpace(stderr.String()))
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%s in %s: %w", tag, path, ErrTagAbsent)
	}

	log.Debug("extracted %s from %s (%d bytes)", tag, path, stdout.Len())
	return stdout.Bytes(), nil
}
