package monitoring

import (
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
	"github.com/fredcamaral/slidesmith/internal/domain/ports"
)

// HealthThresholds bound what the monitor reports as healthy
type HealthThresholds struct {
	MaxMemoryBytes int64
	MaxGoroutines  int
}

// DefaultHealthThresholds returns 500MB of heap and 1000 goroutines
func DefaultHealthThresholds() HealthThresholds {
	return HealthThresholds{MaxMemoryBytes: 500 << 20, MaxGoroutines: 1000}
}

// GenerationStats counts generation calls since start
type GenerationStats struct {
	Generated        int64
	Filled           int64
	Failed           int64
	SlidesWritten    int64
	AverageDuration  time.Duration
	LastGenerationAt time.Time
	LayoutClamps     int64
	FillTruncations  int64
	PlaceholderSkips int64
}

// PerformanceMonitor keeps in-process counters for the health endpoint.
// It implements ports.GenerationMetrics so it can sit next to the
// Prometheus collector behind a Fanout.
type PerformanceMonitor struct {
	startedAt  time.Time
	thresholds HealthThresholds

	mu    sync.RWMutex
	stats GenerationStats
}

// NewPerformanceMonitor creates a new performance monitor
func NewPerformanceMonitor(thresholds HealthThresholds) *PerformanceMonitor {
	return &PerformanceMonitor{
		startedAt:  time.Now(),
		thresholds: thresholds,
	}
}

// ObserveGeneration records one generate or fill call
func (pm *PerformanceMonitor) ObserveGeneration(mode entities.GenerationMode, outcome string, slides int, duration time.Duration) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.stats.LastGenerationAt = time.Now()
	if outcome != "success" {
		pm.stats.Failed++
		return
	}

	switch mode {
	case entities.ModeFill:
		pm.stats.Filled++
	default:
		pm.stats.Generated++
	}
	pm.stats.SlidesWritten += int64(slides)

	// Exponential moving average
	if pm.stats.AverageDuration == 0 {
		pm.stats.AverageDuration = duration
	} else {
		alpha := 0.1
		pm.stats.AverageDuration = time.Duration(float64(pm.stats.AverageDuration)*(1-alpha) + float64(duration)*alpha)
	}
}

// IncLayoutClamp counts a layout index replaced by layout 0
func (pm *PerformanceMonitor) IncLayoutClamp() {
	pm.mu.Lock()
	pm.stats.LayoutClamps++
	pm.mu.Unlock()
}

// IncFillTruncation counts a fill whose content and template lengths differ
func (pm *PerformanceMonitor) IncFillTruncation() {
	pm.mu.Lock()
	pm.stats.FillTruncations++
	pm.mu.Unlock()
}

// IncPlaceholderSkip counts a binding that could not be applied
func (pm *PerformanceMonitor) IncPlaceholderSkip(string) {
	pm.mu.Lock()
	pm.stats.PlaceholderSkips++
	pm.mu.Unlock()
}

// Stats returns a copy of the counters
func (pm *PerformanceMonitor) Stats() GenerationStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.stats
}

// Uptime returns time since the monitor was created
func (pm *PerformanceMonitor) Uptime() time.Duration {
	return time.Since(pm.startedAt)
}

// IsHealthy checks heap usage and goroutine count against the thresholds
func (pm *PerformanceMonitor) IsHealthy() bool {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	return pm.healthy(safeUint64ToInt64(memStats.Alloc), runtime.NumGoroutine())
}

func (pm *PerformanceMonitor) healthy(allocBytes int64, goroutines int) bool {
	return allocBytes < pm.thresholds.MaxMemoryBytes && goroutines < pm.thresholds.MaxGoroutines
}

// GetHealthStatus returns detailed health information. The verdict is
// computed from the same snapshot the report shows.
func (pm *PerformanceMonitor) GetHealthStatus() map[string]interface{} {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	alloc := safeUint64ToInt64(memStats.Alloc)
	goroutines := runtime.NumGoroutine()
	stats := pm.Stats()

	return map[string]interface{}{
		"healthy":      pm.healthy(alloc, goroutines),
		"uptime":       pm.Uptime().Round(time.Second).String(),
		"memory_bytes": alloc,
		"memory_mb":    alloc / (1024 * 1024),
		"goroutines":   goroutines,
		"gc_cycles":    memStats.NumGC,
		"generation":   map[string]interface{}{
			"generated":         stats.Generated,
			"filled":            stats.Filled,
			"failed":            stats.Failed,
			"slides_written":    stats.SlidesWritten,
			"avg_duration_ms":   stats.AverageDuration.Milliseconds(),
			"layout_clamps":     stats.LayoutClamps,
			"fill_truncations":  stats.FillTruncations,
			"placeholder_skips": stats.PlaceholderSkips,
		},
	}
}

// safeUint64ToInt64 safely converts uint64 to int64, capping at max int64 value
func safeUint64ToInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(val)
}

// Fanout forwards generation metrics to several sinks
type Fanout []ports.GenerationMetrics

// ObserveGeneration forwards to every sink
func (f Fanout) ObserveGeneration(mode entities.GenerationMode, outcome string, slides int, duration time.Duration) {
	for _, m := range f {
		m.ObserveGeneration(mode, outcome, slides, duration)
	}
}

// IncLayoutClamp forwards to every sink
func (f Fanout) IncLayoutClamp() {
	for _, m := range f {
		m.IncLayoutClamp()
	}
}

// IncFillTruncation forwards to every sink
func (f Fanout) IncFillTruncation() {
	for _, m := range f {
		m.IncFillTruncation()
	}
}

// IncPlaceholderSkip forwards to every sink
func (f Fanout) IncPlaceholderSkip(reason string) {
	for _, m := range f {
		m.IncPlaceholderSkip(reason)
	}
}

var (
	_ ports.GenerationMetrics = (*PerformanceMonitor)(nil)
	_ ports.GenerationMetrics = Fanout(nil)
)
