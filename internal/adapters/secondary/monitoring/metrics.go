package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
	"github.com/fredcamaral/slidesmith/internal/domain/ports"
)

// Collector holds the Prometheus metrics of one server instance
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Generation metrics
	Generations        *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	SlidesWritten      *prometheus.CounterVec
	LayoutClamps       prometheus.Counter
	FillTruncations    prometheus.Counter
	PlaceholderSkips   *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry, so tests and
// multiple servers in one process never collide on registration.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Presentations produced, by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		GenerationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_duration_seconds",
				Help:      "Time to load, mutate and store a presentation",
				Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"mode"},
		),
		SlidesWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "slides_written_total",
				Help:      "Slides in successfully stored presentations",
			},
			[]string{"mode"},
		),
		LayoutClamps: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "layout_clamps_total",
				Help:      "Content blocks whose layout index was replaced by layout 0",
			},
		),
		FillTruncations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fill_truncations_total",
				Help:      "Fill requests whose slide count differed from the template's",
			},
		),
		PlaceholderSkips: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "placeholder_skips_total",
				Help:      "Bindings that could not be applied",
			},
			[]string{"reason"},
		),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Generations,
		c.GenerationDuration,
		c.SlidesWritten,
		c.LayoutClamps,
		c.FillTruncations,
		c.PlaceholderSkips,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveGeneration records one generate or fill call
func (c *Collector) ObserveGeneration(mode entities.GenerationMode, outcome string, slides int, duration time.Duration) {
	c.Generations.WithLabelValues(string(mode), outcome).Inc()
	c.GenerationDuration.WithLabelValues(string(mode)).Observe(duration.Seconds())
	if outcome == "success" {
		c.SlidesWritten.WithLabelValues(string(mode)).Add(float64(slides))
	}
}

// IncLayoutClamp counts a layout index replaced by layout 0
func (c *Collector) IncLayoutClamp() {
	c.LayoutClamps.Inc()
}

// IncFillTruncation counts a fill whose content and template lengths differ
func (c *Collector) IncFillTruncation() {
	c.FillTruncations.Inc()
}

// IncPlaceholderSkip counts a binding that could not be applied
func (c *Collector) IncPlaceholderSkip(reason string) {
	c.PlaceholderSkips.WithLabelValues(reason).Inc()
}

// RecordHTTPRequest records a served request
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry returns the collector's registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

var _ ports.GenerationMetrics = (*Collector)(nil)
