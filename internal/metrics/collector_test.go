package metrics

import (
	"testing"
	"time"
)

type mockStatsProvider struct {
	current, limit int64
	usage          float64
	calls          int
}

func (m *mockStatsProvider) GetStats() (int64, int64, float64) {
	m.calls++
	return m.current, m.limit, m.usage
}

func TestNewCollector(t *testing.T) {
	provider := &mockStatsProvider{}
	collector := NewCollector(provider, 5*time.Second)

	if collector == nil {
		t.Fatal("NewCollector returned nil")
	}
	if collector.statsProvider != provider {
		t.Error("statsProvider not set correctly")
	}
	if collector.interval != 5*time.Second {
		t.Errorf("interval = %v, want %v", collector.interval, 5*time.Second)
	}
	if collector.stopChan == nil {
		t.Error("stopChan not initialized")
	}
}

func TestCollectWithNilProvider(t *testing.T) {
	collector := NewCollector(nil, time.Second)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("collect() panicked with nil provider: %v", r)
		}
	}()

	collector.collect()
}

func TestCollectQueriesProvider(t *testing.T) {
	provider := &mockStatsProvider{current: 50 << 20, limit: 100 << 20, usage: 0.5}
	collector := NewCollector(provider, time.Second)

	collector.collect()
	collector.collect()

	if provider.calls != 2 {
		t.Errorf("provider called %d times, want 2", provider.calls)
	}
}

func TestCollectMemoryMetricsMultipleTimes(t *testing.T) {
	collector := NewCollector(nil, time.Second)

	collector.collectMemoryMetrics()
	first := collector.lastNumGC
	collector.collectMemoryMetrics()

	if collector.lastNumGC < first {
		t.Errorf("lastNumGC went backwards: %d -> %d", first, collector.lastNumGC)
	}
}

func TestCollectorStartStop(_ *testing.T) {
	collector := NewCollector(&mockStatsProvider{}, 10*time.Millisecond)

	collector.Start()
	time.Sleep(50 * time.Millisecond)
	collector.Stop()

	// Stopping twice must not panic
	collector.Stop()
}
