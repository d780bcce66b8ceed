package util

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// PerfEnabled turns on timing of fetches and link resolution (-perf)
var PerfEnabled bool

// PerfMetric aggregates the timings recorded under one name
type PerfMetric struct {
	Name      string
	Count     int64
	TotalTime time.Duration
	MaxTime   time.Duration
}

// Avg returns the mean duration
func (m PerfMetric) Avg() time.Duration {
	if m.Count == 0 {
		return 0
	}
	return m.TotalTime / time.Duration(m.Count)
}

// PerfTracker collects timings across goroutines
type PerfTracker struct {
	mu      sync.Mutex
	metrics map[string]*PerfMetric
	started time.Time
}

var (
	globalPerf     *PerfTracker
	globalPerfOnce sync.Once
)

// NewPerfTracker returns an empty tracker
func NewPerfTracker() *PerfTracker {
	return &PerfTracker{metrics: make(map[string]*PerfMetric), started: time.Now()}
}

// GetPerfTracker returns the process-wide tracker
func GetPerfTracker() *PerfTracker {
	globalPerfOnce.Do(func() {
		globalPerf = NewPerfTracker()
	})
	return globalPerf
}

// Record adds one measurement
func (pt *PerfTracker) Record(name string, d time.Duration) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	m, ok := pt.metrics[name]
	if !ok {
		m = &PerfMetric{Name: name}
		pt.metrics[name] = m
	}
	m.Count++
	m.TotalTime += d
	m.MaxTime = max(m.MaxTime, d)
}

// Metrics returns a snapshot sorted by total time, slowest first
func (pt *PerfTracker) Metrics() []PerfMetric {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	out := make([]PerfMetric, 0, len(pt.metrics))
	for _, m := range pt.metrics {
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b PerfMetric) int {
		if c := cmp.Compare(b.TotalTime, a.TotalTime); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Track starts a measurement and returns the function that ends it.
// Usage: defer util.Track("fetch:egydead")()
func Track(name string) func() {
	if !PerfEnabled {
		return func() {}
	}
	start := time.Now()
	return func() {
		GetPerfTracker().Record(name, time.Since(start))
	}
}

var (
	perfTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	perfMetricStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1D3"))
	perfSlowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	perfFastStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7BED9F"))
)

// Report renders the collected timings as a table
func (pt *PerfTracker) Report() string {
	var b strings.Builder
	b.WriteString(perfTitleStyle.Render("PERFORMANCE REPORT"))
	fmt.Fprintf(&b, "  uptime %s\n", time.Since(pt.started).Round(time.Millisecond))

	for _, m := range pt.Metrics() {
		avg := m.Avg().Round(time.Millisecond).String()
		switch {
		case m.Avg() > 2*time.Second:
			avg = perfSlowStyle.Render(avg)
		case m.Avg() < 200*time.Millisecond:
			avg = perfFastStyle.Render(avg)
		}
		name := m.Name
		if len(name) > 38 {
			name = name[:35] + "..."
		}
		fmt.Fprintf(&b, "  %-40s %6d  total %-10s avg %-10s max %s\n",
			perfMetricStyle.Render(name), m.Count,
			m.TotalTime.Round(time.Millisecond), avg, m.MaxTime.Round(time.Millisecond))
	}
	return b.String()
}
