package decoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"raw-loader/internal/filesystem"
	"raw-loader/internal/logging"
	"raw-loader/internal/pixel"
	"raw-loader/internal/rawconfig"
	"raw-loader/internal/rawerr"

	"golang.org/x/image/tiff"
)

var log = logging.Prefixed("decoder")

const (
	// DefaultDevelopBinary is LibRaw's dcraw emulator.
	DefaultDevelopBinary = "dcraw_emu"
	// DefaultThumbnailBinary supports writing the embedded thumbnail to stdout.
	DefaultThumbnailBinary = "dcraw"
)

var (
	// ErrNoEmbedded means the file carries no embedded thumbnail.
	ErrNoEmbedded = errors.New("no embedded thumbnail")
	// ErrNotInstalled means the decoder executable is not on PATH.
	ErrNotInstalled = errors.New("decoder executable not found")
)

// Embedded is an embedded preview as stored in the file.
type Embedded struct {
	Data   []byte
	Format string // "jpeg", "ppm", "tiff", or "unknown"
}

// Decoder is the native RAW decoder contract.
type Decoder interface {
	// Develop fully develops path with cfg.
	Develop(ctx context.Context, path string, cfg rawconfig.DecoderConfig) (*pixel.PixelBuffer, error)
	// EmbeddedThumbnail returns the largest preview the decoder can extract
	// without developing. It returns ErrNoEmbedded or ErrNotInstalled
	// (wrapped) when there is nothing to return.
	EmbeddedThumbnail(ctx context.Context, path string) (*Embedded, error)
}

// Command is a Decoder backed by LibRaw/dcraw executables.
type Command struct {
	DevelopBinary   string
	ThumbnailBinary string
}

// New returns a Command decoder. Empty binary names use the defaults.
func New(developBinary, thumbnailBinary string) *Command {
	if developBinary == "" {
		developBinary = DefaultDevelopBinary
	}
	if thumbnailBinary == "" {
		thumbnailBinary = DefaultThumbnailBinary
	}
	return &Command{DevelopBinary: developBinary, ThumbnailBinary: thumbnailBinary}
}

// Develop implements Decoder.
func (c *Command) Develop(ctx context.Context, path string, cfg rawconfig.DecoderConfig) (*pixel.PixelBuffer, error) {
	const op = "decoder.develop"

	if err := checkReadable(ctx, path); err != nil {
		return nil, rawerr.New(rawerr.FileUnreadable, op, path, err)
	}

	args := append([]string{"-T", "-Z", "-"}, cfg.Args()...)
	args = append(args, path)

	log.Debug("Developing %s with %s %s", path, c.DevelopBinary, strings.Join(args[:len(args)-1], " "))

	stdout, stderr, err := run(ctx, c.DevelopBinary, args)
	if err != nil {
		if errors.Is(err, ErrNotInstalled) {
			return nil, rawerr.New(rawerr.DecodeFailure, op, path, err)
		}
		return nil, rawerr.New(classify(stderr), op, path, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr)))
	}
	if len(stdout) == 0 {
		return nil, rawerr.Errorf(rawerr.DecodeFailure, op, path, "decoder produced no output: %s", strings.TrimSpace(stderr))
	}

	img, err := tiff.Decode(bytes.NewReader(stdout))
	if err != nil {
		return nil, rawerr.New(rawerr.DecodeFailure, op, path, fmt.Errorf("failed to decode decoder output: %w", err))
	}

	buf, err := pixel.FromImage(img, cfg.BitDepth.Bits())
	if err != nil {
		return nil, rawerr.New(rawerr.DecodeFailure, op, path, err)
	}

	log.Debug("Developed %s: %s", path, buf)
	return buf, nil
}

// EmbeddedThumbnail implements Decoder.
func (c *Command) EmbeddedThumbnail(ctx context.Context, path string) (*Embedded, error) {
	const op = "decoder.thumbnail"

	if err := checkReadable(ctx, path); err != nil {
		return nil, rawerr.New(rawerr.FileUnreadable, op, path, err)
	}

	stdout, stderr, err := run(ctx, c.ThumbnailBinary, []string{"-c", "-e", path})
	if err != nil {
		if errors.Is(err, ErrNotInstalled) {
			return nil, err
		}
		if strings.Contains(strings.ToLower(stderr), "no thumbnail") {
			return nil, fmt.Errorf("%s: %w", path, ErrNoEmbedded)
		}
		return nil, rawerr.New(classify(stderr), op, path, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr)))
	}
	if len(stdout) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoEmbedded)
	}

	return &Embedded{Data: stdout, Format: SniffFormat(stdout)}, nil
}

// SniffFormat identifies an embedded image by its leading bytes.
func SniffFormat(data []byte) string {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "jpeg"
	case len(data) >= 2 && data[0] == 'P' && (data[1] == '6' || data[1] == '5'):
		return "ppm"
	case len(data) >= 4 && ((data[0] == 0x49 && data[1] == 0x49 && data[2] == 0x2A && data[3] == 0x00) ||
		(data[0] == 0x4D && data[1] == 0x4D && data[2] == 0x00 && data[3] == 0x2A)):
		return "tiff"
	case len(data) >= 8 && data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G':
		return "png"
	}
	return "unknown"
}

// checkReadable opens and closes path so a missing or unreadable file is
// reported before any process starts. Stale NFS handles are retried.
func checkReadable(ctx context.Context, path string) error {
	info, err := filesystem.StatWithRetry(ctx, path, filesystem.DefaultRetryConfig())
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	f, err := filesystem.OpenWithRetry(ctx, path, filesystem.DefaultRetryConfig())
	if err != nil {
		return err
	}
	return f.Close()
}

func run(ctx context.Context, binary string, args []string) (stdout []byte, stderr string, err error) {
	if _, err := exec.LookPath(binary); err != nil {
		return nil, "", fmt.Errorf("%s: %w", binary, ErrNotInstalled)
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		return out.Bytes(), errOut.String(), fmt.Errorf("%s failed: %w", binary, err)
	}
	return out.Bytes(), errOut.String(), nil
}

var unsupportedMarkers = []string{
	"unsupported file format",
	"not raw file",
	"cannot decode",
	"unsupported",
}

var unreadableMarkers = []string{
	"no such file",
	"permission denied",
	"cannot open",
	"i/o error",
}

// classify maps decoder stderr text onto an error kind.
func classify(stderr string) rawerr.Kind {
	s := strings.ToLower(stderr)
	for _, m := range unsupportedMarkers {
		if strings.Contains(s, m) {
			return rawerr.UnsupportedFormat
		}
	}
	for _, m := range unreadableMarkers {
		if strings.Contains(s, m) {
			return rawerr.FileUnreadable
		}
	}
	return rawerr.DecodeFailure
}
