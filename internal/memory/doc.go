// Package memory keeps raw-loader inside its container memory limit.
//
// Developing a RAW file is memory heavy: a 45 MP frame at 16 bits is roughly
// 270 MB of decoder output before it becomes a float32 tensor twice that size.
// Most of it lives in the Go heap, while dcraw_emu and libvips allocate beside
// it. This package provides two pieces:
//
//   - [ConfigureFromEnv] sets GOMEMLIMIT from MEMORY_LIMIT (bytes, typically
//     from the Kubernetes Downward API) scaled by MEMORY_RATIO (default 0.75).
//     An explicit GOMEMLIMIT always wins.
//   - [Monitor] samples the heap and, above the critical water mark, makes
//     [Monitor.WaitIfPaused] block new developments until usage drops below
//     the high water mark again.
//
// Usage:
//
//	memory.ConfigureFromEnv()
//
//	monitor := memory.NewMonitor(memory.DefaultConfig())
//	monitor.Start()
//	defer monitor.Stop()
//
//	p := pipeline.New(dec, tool, obs)
//	p.Gate = monitor
package memory
