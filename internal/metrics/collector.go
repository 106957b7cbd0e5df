package metrics

import (
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"raw-loader/internal/logging"
)

// StatsProvider reports memory usage against the configured limit.
// *memory.Monitor implements it.
type StatsProvider interface {
	GetStats() (current, limit int64, usage float64)
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once

	mu        sync.Mutex
	lastNumGC uint32
}

// NewCollector creates a new metrics collector. provider may be nil.
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection. It is safe to call more than once.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	c.collectMemoryMetrics()

	if c.statsProvider == nil {
		return
	}

	current, limit, usage := c.statsProvider.GetStats()
	if limit > 0 {
		MemoryUsageRatio.Set(usage)
	}

	logging.Debug("Metrics collected: alloc=%.1f MB, limit=%.1f MB, usage=%.1f%%",
		float64(current)/(1024*1024), float64(limit)/(1024*1024), usage*100)
}

func (c *Collector) collectMemoryMetrics() {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	GoMemAllocBytes.Set(float64(stats.Alloc))
	GoMemSysBytes.Set(float64(stats.Sys))

	if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < 1<<62 {
		GoMemLimit.Set(float64(limit))
	} else {
		GoMemLimit.Set(0)
	}

	c.mu.Lock()
	if stats.NumGC > c.lastNumGC {
		GoGCRuns.Add(float64(stats.NumGC - c.lastNumGC))
	}
	c.lastNumGC = stats.NumGC
	c.mu.Unlock()
}
