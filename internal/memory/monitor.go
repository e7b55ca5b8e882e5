package memory

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"media-preview/internal/logging"
	"media-preview/internal/metrics"
)

// Watermarks are fractions of the memory limit.
type Watermarks struct {
	// High is the level below which a paused monitor resumes.
	High float64
	// Critical is the level at which admission pauses.
	Critical float64
}

// DefaultWatermarks resume below 70% and pause at 85%.
var DefaultWatermarks = Watermarks{High: 0.7, Critical: 0.85}

// Monitor samples heap usage against a limit and gates new work.
type Monitor struct {
	limit    int64
	marks    Watermarks
	interval time.Duration
	sample   func() uint64

	mu      sync.Mutex
	current uint64
	paused  bool
	resume  chan struct{}
}

// NewMonitor watches against limit bytes. A zero limit falls back to the
// runtime soft limit; with neither, the monitor never pauses.
func NewMonitor(limit int64, marks Watermarks, interval time.Duration) *Monitor {
	if limit <= 0 {
		if l := debug.SetMemoryLimit(-1); l > 0 && l < 1<<62 {
			limit = l
		} else {
			limit = 0
		}
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Monitor{
		limit:    limit,
		marks:    marks,
		interval: interval,
		sample:   heapAlloc,
		resume:   make(chan struct{}),
	}
}

func heapAlloc() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.Alloc
}

// Enabled reports whether a limit is known.
func (m *Monitor) Enabled() bool {
	return m.limit > 0
}

// Run samples until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	if !m.Enabled() {
		logging.Debug("Memory monitor: no limit configured, backpressure disabled")
		return
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.check()
		case <-ctx.Done():
			return
		}
	}
}

func (m *Monitor) check() {
	alloc := m.sample()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = alloc
	usage := float64(alloc) / float64(m.limit)
	metrics.MemoryUsageRatio.Set(usage)

	switch {
	case !m.paused && usage >= m.marks.Critical:
		logging.Warn("Memory critical (%.1f%% of limit), pausing job admission", usage*100)
		m.paused = true
		metrics.MemoryPaused.Set(1)
		metrics.MemoryGCPauses.Inc()
		go runtime.GC()
	case m.paused && usage < m.marks.High:
		logging.Info("Memory recovered (%.1f%% of limit), resuming job admission", usage*100)
		m.paused = false
		metrics.MemoryPaused.Set(0)
		close(m.resume)
		m.resume = make(chan struct{})
	}
}

// Paused reports whether admission is currently paused.
func (m *Monitor) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// Usage returns the last sampled heap usage as a fraction of the limit.
func (m *Monitor) Usage() float64 {
	if !m.Enabled() {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(m.current) / float64(m.limit)
}

// Wait blocks while admission is paused. It returns ctx.Err() if ctx ends
// first.
func (m *Monitor) Wait(ctx context.Context) error {
	m.mu.Lock()
	if !m.paused {
		m.mu.Unlock()
		return nil
	}
	resume := m.resume
	m.mu.Unlock()

	select {
	case <-resume:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
