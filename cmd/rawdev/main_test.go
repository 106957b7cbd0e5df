package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"raw-loader/internal/pipeline"
	"raw-loader/internal/pixel"
	"raw-loader/internal/rawconfig"
	"raw-loader/internal/rawerr"
)

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseFlags([]string{
		"-o", "out", "-set", "white_balance=daylight", "-set", "exp_ev=1.5",
		"-preview", "-workers", "3", "-max-dim", "512", "a.CR2", "shoot",
	}, &stderr)
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}

	if opts.outDir != "out" || opts.workers != 3 || opts.maxDim != 512 {
		t.Errorf("opts = %+v", opts)
	}
	if opts.settings.Get("white_balance") != "daylight" || opts.settings.Get("exp_ev") != "1.5" {
		t.Errorf("settings = %v", opts.settings)
	}
	if !opts.slots.Preview || opts.slots.Thumbnail {
		t.Errorf("slots = %+v", opts.slots)
	}
	if strings.Join(opts.inputs, ",") != "a.CR2,shoot" {
		t.Errorf("inputs = %v", opts.inputs)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no inputs", []string{"-o", "out"}},
		{"malformed set", []string{"-set", "daylight", "a.CR2"}},
		{"unknown flag", []string{"-fast", "a.CR2"}},
		{"no slots flag", []string{"-slots", "preview", "a.CR2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			if _, err := parseFlags(tt.args, &stderr); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestUsageListsOptionNames(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseFlags([]string{"-h"}, &stderr)
	if err == nil {
		t.Fatal("expected flag.ErrHelp")
	}
	for _, want := range []string{"demosaic_algorithm", "-preview", "-thumbnail", "-max-dim", "-metrics-file"} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("usage missing %q:\n%s", want, stderr.String())
		}
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.CR2", "b.nef", "notes.txt", "sub/c.dng", ".cache/d.cr2"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	explicit := filepath.Join(dir, "notes.txt")

	files, err := collectFiles([]string{dir, explicit})
	if err != nil {
		t.Fatalf("collectFiles() error = %v", err)
	}

	var got []string
	for _, f := range files {
		rel, _ := filepath.Rel(dir, f)
		got = append(got, filepath.ToSlash(rel))
	}
	sort.Strings(got)
	want := []string{"a.CR2", "b.nef", "notes.txt", "sub/c.dng"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("files = %v, want %v", got, want)
	}

	if _, err := collectFiles([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("expected error for missing input")
	}
}

type fakeLoader struct {
	mu    sync.Mutex
	fail  map[string]error
	opts  []rawconfig.Options
	calls int
}

func (l *fakeLoader) Load(ctx context.Context, path string, opts rawconfig.Options, slots pipeline.Slots) (*pipeline.Output, error) {
	l.mu.Lock()
	l.calls++
	l.opts = append(l.opts, opts)
	l.mu.Unlock()

	if err := l.fail[filepath.Base(path)]; err != nil {
		return nil, err
	}

	buf := pixel.New16(4, 2)
	img, err := pixel.Normalize(buf)
	if err != nil {
		return nil, err
	}
	out := &pipeline.Output{Image: img}
	if slots.Preview {
		p := pixel.Placeholder()
		out.Preview = &p
	}
	if slots.Thumbnail {
		th := img
		out.Thumbnail = &th
	}
	return out, nil
}

func TestBatchWritesOutputs(t *testing.T) {
	outDir := t.TempDir()
	loader := &fakeLoader{fail: map[string]error{
		"bad.NEF": rawerr.Errorf(rawerr.UnsupportedFormat, "decoder.develop", "bad.NEF", "not a raw file"),
	}}
	var stdout, stderr bytes.Buffer

	b := &batch{
		loader: loader,
		opts:   rawconfig.DefaultOptions(),
		slots:  pipeline.AllSlots,
		outDir: outDir,
		stdout: &stdout,
		stderr: &stderr,
	}
	b.run(context.Background(), []string{"in/good.CR2", "in/bad.NEF"}, 2)

	if loader.calls != 2 {
		t.Errorf("Load calls = %d, want 2", loader.calls)
	}
	if len(b.failed) != 1 || b.failed[0] != "in/bad.NEF" {
		t.Errorf("failed = %v", b.failed)
	}

	for _, name := range []string{"good.png", "good.preview.png", "good.thumb.png"} {
		f, err := os.Open(filepath.Join(outDir, name))
		if err != nil {
			t.Errorf("missing output %s: %v", name, err)
			continue
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Errorf("%s is not a PNG: %v", name, err)
			continue
		}
		if name == "good.preview.png" && (cfg.Width != 1 || cfg.Height != 1) {
			t.Errorf("placeholder preview = %dx%d, want 1x1", cfg.Width, cfg.Height)
		}
		if name == "good.png" && (cfg.Width != 4 || cfg.Height != 2) {
			t.Errorf("primary = %dx%d, want 4x2", cfg.Width, cfg.Height)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "bad.png")); !errors.Is(err, os.ErrNotExist) {
		t.Error("failed development should not write output")
	}

	if !strings.Contains(stderr.String(), "wrote placeholder") || !strings.Contains(stderr.String(), "not a raw file") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if !strings.Contains(stdout.String(), "good.CR2") || !strings.Contains(stdout.String(), "avg #") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunRejectsBadOption(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-set", "output_bps=12", t.TempDir()}, &stdout, &stderr)
	if code != 2 {
		t.Errorf("run() = %d, want 2 (stderr %q)", code, stderr.String())
	}
}

func TestRunNoRawFiles(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{t.TempDir()}, &stdout, &stderr)
	if code != 1 || !strings.Contains(stderr.String(), "No RAW files") {
		t.Errorf("run() = %d, stderr %q", code, stderr.String())
	}
}

func TestRunMissingDecoder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.CR2"), []byte("not really raw"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DECODER_BIN", filepath.Join(dir, "no-such-decoder"))
	t.Setenv("EXIFTOOL_BIN", filepath.Join(dir, "no-such-exiftool"))

	metricsFile := filepath.Join(dir, "rawdev.prom")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-o", filepath.Join(dir, "out"), "-metrics-file", metricsFile, dir}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("run() = %d, want 1 (stderr %q)", code, stderr.String())
	}

	data, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	if !strings.Contains(string(data), `raw_loader_batch_files_total{status="error"}`) {
		t.Errorf("metrics file missing batch counter:\n%s", data)
	}
}
