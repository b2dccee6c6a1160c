// Package observability holds in-process conversion metrics.
package observability

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Counter only grows; negative deltas are ignored.
type Counter struct {
	n atomic.Int64
}

func (c *Counter) Inc() { c.n.Add(1) }

func (c *Counter) Add(delta int64) {
	if delta > 0 {
		c.n.Add(delta)
	}
}

func (c *Counter) Value() int64 { return c.n.Load() }

// Gauge tracks a level that rises and falls, such as in-flight conversions.
type Gauge struct {
	n atomic.Int64
}

func (g *Gauge) Set(v int64) { g.n.Store(v) }
func (g *Gauge) Inc()        { g.n.Add(1) }
func (g *Gauge) Dec()        { g.n.Add(-1) }
func (g *Gauge) Value() int64 {
	return g.n.Load()
}

// Histogram keeps running aggregates only, so a long-lived server does not
// accumulate every observation.
type Histogram struct {
	mu    sync.Mutex
	count int64
	sum   float64
	min   float64
	max   float64
}

func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count == 0 || v < h.min {
		h.min = v
	}
	if h.count == 0 || v > h.max {
		h.max = v
	}
	h.sum += v
	h.count++
}

type HistogramSnapshot struct {
	Count int64
	Sum   float64
	Avg   float64
	Min   float64
	Max   float64
}

func (h *Histogram) Snapshot() HistogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count == 0 {
		return HistogramSnapshot{}
	}
	return HistogramSnapshot{
		Count: h.count,
		Sum:   h.sum,
		Avg:   h.sum / float64(h.count),
		Min:   h.min,
		Max:   h.max,
	}
}

// MetricsRegistry hands out named instruments, creating them on first use.
type MetricsRegistry struct {
	mu         sync.RWMutex
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram
}

func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		counters:   map[string]*Counter{},
		gauges:     map[string]*Gauge{},
		histograms: map[string]*Histogram{},
	}
}

func (r *MetricsRegistry) Counter(name string) *Counter {
	return lookup(&r.mu, r.counters, name)
}

func (r *MetricsRegistry) Gauge(name string) *Gauge {
	return lookup(&r.mu, r.gauges, name)
}

func (r *MetricsRegistry) Histogram(name string) *Histogram {
	return lookup(&r.mu, r.histograms, name)
}

// lookup returns set[name], creating it under the write lock when missing.
func lookup[T any](mu *sync.RWMutex, set map[string]*T, name string) *T {
	mu.RLock()
	found, ok := set[name]
	mu.RUnlock()
	if ok {
		return found
	}

	mu.Lock()
	defer mu.Unlock()
	if found, ok := set[name]; ok {
		return found
	}
	created := new(T)
	set[name] = created
	return created
}

// Snapshot flattens every metric into name -> value, prefixed by its type.
func (r *MetricsRegistry) Snapshot() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]any, len(r.counters)+len(r.gauges)+5*len(r.histograms))
	for name, c := range r.counters {
		out["counter."+name] = c.Value()
	}
	for name, g := range r.gauges {
		out["gauge."+name] = g.Value()
	}
	for name, h := range r.histograms {
		s := h.Snapshot()
		prefix := "histogram." + name + "."
		out[prefix+"count"] = s.Count
		out[prefix+"sum"] = s.Sum
		out[prefix+"avg"] = s.Avg
		out[prefix+"min"] = s.Min
		out[prefix+"max"] = s.Max
	}
	return out
}

// Names returns the snapshot keys in sorted order.
func (r *MetricsRegistry) Names() []string {
	snap := r.Snapshot()
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
