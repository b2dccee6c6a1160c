package observability

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryReturnsSameInstruments(t *testing.T) {
	r := NewMetricsRegistry()
	assert.Same(t, r.Counter("a"), r.Counter("a"))
	assert.Same(t, r.Gauge("g"), r.Gauge("g"))
	assert.Same(t, r.Histogram("h"), r.Histogram("h"))
}

func TestCounterConcurrent(t *testing.T) {
	c := NewMetricsRegistry().Counter("hits")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Inc()
		}()
	}
	wg.Wait()
	c.Add(10)
	assert.Equal(t, int64(60), c.Value())
}

func TestCounterIgnoresNegativeDelta(t *testing.T) {
	c := &Counter{}
	c.Add(5)
	c.Add(-3)
	assert.Equal(t, int64(5), c.Value())

	g := &Gauge{}
	g.Set(2)
	g.Dec()
	g.Dec()
	g.Dec()
	assert.Equal(t, int64(-1), g.Value())
}

func TestRegistryConcurrentLookup(t *testing.T) {
	r := NewMetricsRegistry()
	got := make([]*Counter, 32)
	var wg sync.WaitGroup
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = r.Counter("shared")
			got[i].Inc()
		}(i)
	}
	wg.Wait()
	for _, c := range got {
		assert.Same(t, got[0], c)
	}
	assert.Equal(t, int64(len(got)), r.Counter("shared").Value())
}

func TestHistogramSnapshot(t *testing.T) {
	h := &Histogram{}
	assert.Equal(t, HistogramSnapshot{}, h.Snapshot())

	for _, v := range []float64{4, 1, 7} {
		h.Observe(v)
	}
	s := h.Snapshot()
	assert.Equal(t, int64(3), s.Count)
	assert.Equal(t, 12.0, s.Sum)
	assert.Equal(t, 4.0, s.Avg)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 7.0, s.Max)
}

func TestSnapshotAndNames(t *testing.T) {
	r := NewMetricsRegistry()
	r.Counter("c").Inc()
	r.Gauge("g").Set(3)
	r.Histogram("h").Observe(2)

	snap := r.Snapshot()
	assert.Equal(t, int64(1), snap["counter.c"])
	assert.Equal(t, int64(3), snap["gauge.g"])
	assert.Equal(t, int64(1), snap["histogram.h.count"])
	assert.Equal(t, []string{
		"counter.c",
		"gauge.g",
		"histogram.h.avg",
		"histogram.h.count",
		"histogram.h.max",
		"histogram.h.min",
		"histogram.h.sum",
	}, r.Names())
}

func TestConversionMetrics(t *testing.T) {
	m := NewConversionMetrics(nil)

	done := m.Start("gitlab")
	assert.Equal(t, int64(1), m.Registry().Gauge(MetricConversionsActive).Value())
	done("")

	m.Start("github")("target-not-found")

	r := m.Registry()
	assert.Equal(t, int64(0), r.Gauge(MetricConversionsActive).Value())
	assert.Equal(t, int64(2), r.Counter(MetricConversionsTotal).Value())
	assert.Equal(t, int64(1), r.Counter(MetricConversionsFailed).Value())
	assert.Equal(t, int64(1), r.Counter("conversions.target.gitlab").Value())
	assert.Equal(t, int64(0), r.Counter("conversions.target.github").Value())
	assert.Equal(t, int64(1), r.Counter("conversions.error.target-not-found").Value())
	assert.Equal(t, int64(2), r.Histogram(MetricConversionLatency).Snapshot().Count)
}
