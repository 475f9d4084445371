package ports

import (
	"context"
	"net/http"
	"time"
)

// HTTPServer defines the interface for the HTTP server
type HTTPServer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	IsRunning() bool
	Addr() string
}

// HealthReporter supplies the process status shown by the health endpoint
type HealthReporter interface {
	IsHealthy() bool
	GetHealthStatus() map[string]interface{}
}

// RequestMetrics records served requests and exposes them for scraping
type RequestMetrics interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	Handler() http.Handler
}
