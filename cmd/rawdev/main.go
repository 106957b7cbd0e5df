package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"io/fs"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"

	"raw-loader/internal/decoder"
	"raw-loader/internal/exiftool"
	"raw-loader/internal/extract"
	"raw-loader/internal/filesystem"
	"raw-loader/internal/imagestats"
	"raw-loader/internal/logging"
	"raw-loader/internal/media"
	"raw-loader/internal/mediatypes"
	"raw-loader/internal/memory"
	"raw-loader/internal/metrics"
	"raw-loader/internal/pipeline"
	"raw-loader/internal/pixel"
	"raw-loader/internal/rawconfig"
	"raw-loader/internal/workers"

	"github.com/disintegration/imaging"
	"github.com/prometheus/client_golang/prometheus"
)

// Upper bound for parallel developments regardless of CPU count; each
// holds a full-resolution image in memory.
const maxWorkers = 8

// setFlag collects repeated -set key=value flags.
type setFlag url.Values

func (s setFlag) String() string {
	return url.Values(s).Encode()
}

func (s setFlag) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return fmt.Errorf("want key=value, got %q", v)
	}
	url.Values(s).Set(strings.TrimSpace(key), value)
	return nil
}

type options struct {
	outDir      string
	settings    url.Values
	slots       pipeline.Slots
	maxDim      int
	workers     int
	metricsFile string
	verbose     bool
	inputs      []string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{settings: url.Values{}}

	flags := flag.NewFlagSet("rawdev", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opts.outDir, "o", ".", "output directory")
	flags.Var(setFlag(opts.settings), "set", "development option key=value (repeatable)")
	flags.BoolVar(&opts.slots.Preview, "preview", false, "also extract the embedded preview")
	flags.BoolVar(&opts.slots.Thumbnail, "thumbnail", false, "also extract the embedded thumbnail")
	flags.IntVar(&opts.maxDim, "max-dim", 0, "shrink previews and thumbnails to fit")
	flags.IntVar(&opts.workers, "workers", 0, "parallel developments (0: one per CPU)")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics here when done")
	flags.BoolVar(&opts.verbose, "v", false, "debug logging")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: rawdev [flags] <file|dir>...")
		flags.PrintDefaults()
		fmt.Fprintln(stderr, "\nOption names:")
		names := rawconfig.Names()
		keys := make([]string, 0, len(names))
		for k := range names {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(stderr, "  %-22s %s\n", k, strings.Join(names[k], " | "))
		}
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	opts.inputs = flags.Args()
	if len(opts.inputs) == 0 {
		flags.Usage()
		return nil, errors.New("no input files")
	}
	if opts.workers <= 0 {
		opts.workers = workers.ForCPU(maxWorkers)
	}
	return opts, nil
}

// collectFiles expands directories into the RAW files below them. Explicit
// file arguments are kept whatever their extension.
func collectFiles(inputs []string) ([]string, error) {
	var files []string
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, in)
			continue
		}
		err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != in && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if mediatypes.IsRaw(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// Loader is the part of *pipeline.Pipeline the batch needs.
type Loader interface {
	Load(ctx context.Context, path string, opts rawconfig.Options, slots pipeline.Slots) (*pipeline.Output, error)
}

type batch struct {
	loader Loader
	opts   rawconfig.Options
	slots  pipeline.Slots
	outDir string
	stdout io.Writer
	stderr io.Writer

	mu     sync.Mutex
	failed []string
}

func (b *batch) run(ctx context.Context, files []string, n int) {
	workers.ForEach(ctx, n, files, b.process)
}

func (b *batch) process(ctx context.Context, file string) {
	out, err := b.loader.Load(ctx, file, b.opts, b.slots)
	if err != nil {
		b.fail(file, err)
		return
	}

	base := filepath.Join(b.outDir, strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
	if err := writePNG(base+".png", out.Image); err != nil {
		b.fail(file, err)
		return
	}
	if out.Preview != nil {
		if err := b.writeSlot(file, base+".preview.png", *out.Preview, out.Report(extract.SlotPreview)); err != nil {
			b.fail(file, err)
			return
		}
	}
	if out.Thumbnail != nil {
		if err := b.writeSlot(file, base+".thumb.png", *out.Thumbnail, out.Report(extract.SlotThumbnail)); err != nil {
			b.fail(file, err)
			return
		}
	}

	stats := imagestats.Summarize(out.Image.ToImage())
	metrics.BatchFilesTotal.WithLabelValues("success").Inc()
	b.mu.Lock()
	fmt.Fprintf(b.stdout, "%s -> %s.png (%dx%d, %d-bit, avg %s)\n", file, base, out.Image.Width(), out.Image.Height(), out.Image.SourceBits, stats.Average)
	b.mu.Unlock()
}

func (b *batch) writeSlot(file, path string, img pixel.CanonicalImage, report extract.Report) error {
	if img.IsPlaceholder() {
		b.mu.Lock()
		fmt.Fprintf(b.stderr, "%s: no embedded image for %s, wrote placeholder\n", file, filepath.Base(path))
		b.mu.Unlock()
		if err := report.Err(); err != nil {
			logging.Debug("%s: %v", file, err)
		}
	}
	return writePNG(path, img)
}

func (b *batch) fail(file string, err error) {
	metrics.BatchFilesTotal.WithLabelValues("error").Inc()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failed = append(b.failed, file)
	fmt.Fprintf(b.stderr, "%s: %v\n", file, err)
}

func writePNG(path string, img pixel.CanonicalImage) error {
	return imaging.Save(img.ToImage(), path, imaging.PNGCompressionLevel(png.BestSpeed))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.verbose {
		logging.SetLevel(logging.LevelDebug)
	}

	devOpts, err := rawconfig.ParseValues(opts.settings)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	files, err := collectFiles(opts.inputs)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintln(stderr, "No RAW files found")
		return 1
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		fmt.Fprintf(stderr, "Error: failed to create output directory: %v\n", err)
		return 1
	}

	exiftoolBin := envOr("EXIFTOOL_BIN", exiftool.DefaultBinary)
	p := pipeline.New(
		decoder.New(os.Getenv("DECODER_BIN"), os.Getenv("THUMB_DECODER_BIN")),
		exiftool.New(exiftoolBin, exiftool.ProbeOnce(exiftoolBin)),
		metrics.NewExtractionObserver(),
	)
	p.MaxDimension = opts.maxDim
	filesystem.SetObserver(metrics.NewFilesystemObserver())

	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start()
	defer monitor.Stop()
	p.Gate = monitor

	logging.Info("Developing %d files with %d workers", len(files), opts.workers)

	b := &batch{
		loader: p,
		opts:   devOpts,
		slots:  opts.slots,
		outDir: opts.outDir,
		stdout: stdout,
		stderr: stderr,
	}
	b.run(ctx, files, opts.workers)

	if opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, prometheus.DefaultGatherer); err != nil {
			fmt.Fprintf(stderr, "Warning: failed to write metrics: %v\n", err)
		}
	}

	if ctx.Err() != nil {
		fmt.Fprintln(stderr, "Interrupted")
		return 130
	}
	if len(b.failed) > 0 {
		fmt.Fprintf(stderr, "%d of %d files failed\n", len(b.failed), len(files))
		return 1
	}
	return 0
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	memory.ConfigureFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	vipsErr := media.InitVips()
	if vipsErr != nil {
		logging.Debug("libvips unavailable, using pure Go decoding: %v", vipsErr)
	}

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if vipsErr == nil {
		media.ShutdownVips()
	}
	os.Exit(code)
}
