package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
	"github.com/fredcamaral/slidesmith/internal/domain/ports"
)

const (
	serviceName    = "PPTX Generator"
	serviceVersion = "1.0.0"
)

// Server implements the HTTPServer interface
type Server struct {
	server   *http.Server
	listener net.Listener
	decks    ports.DeckService
	config   entities.ServerConfig
	health   ports.HealthReporter
	metrics  ports.RequestMetrics
	limiter  *rateLimiter
	logger   *zap.Logger

	metricsPath    string
	downloadPrefix string

	mu      sync.RWMutex
	running bool
}

// NewServer creates a new HTTP server
func NewServer(decks ports.DeckService, config entities.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		decks:          decks,
		config:         config,
		limiter:        newRateLimiter(),
		logger:         logger.Named("http"),
		metricsPath:    "/metrics",
		downloadPrefix: "/download/",
	}
}

// SetHealthReporter attaches the monitor reported by the health endpoint
func (s *Server) SetHealthReporter(health ports.HealthReporter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health = health
}

// SetMetrics attaches request metrics and serves them on path
func (s *Server) SetMetrics(metrics ports.RequestMetrics, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = metrics
	if path != "" {
		s.metricsPath = path
	}
}

// SetDownloadPrefix sets the route prefix of generated files.
// It must match the prefix the deck service puts in download URLs.
func (s *Server) SetDownloadPrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prefix != "" {
		s.downloadPrefix = prefix
	}
}

// Start binds the listener and serves in the background
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}

	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.listener = listener
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.GetReadTimeout(),
		WriteTimeout: s.config.GetWriteTimeout(),
		IdleTimeout:  2 * s.config.GetReadTimeout(),
	}
	s.running = true
	server := s.server
	s.mu.Unlock()

	go func() {
		s.logger.Info("HTTP server starting", zap.String("addr", listener.Addr().String()))
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return errors.New("server not running")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.GetShutdownTimeout())
	defer cancel()

	s.running = false
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the bound address, or "" before Start
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler builds the routed handler with the full middleware chain
func (s *Server) Handler() http.Handler {
	s.mu.RLock()
	metrics := s.metrics
	metricsPath := s.metricsPath
	downloadPrefix := s.downloadPrefix
	s.mu.RUnlock()

	router := mux.NewRouter()

	router.HandleFunc("/", s.handleHealth).Methods(http.MethodGet)

	router.HandleFunc("/templates", s.handleListTemplates).Methods(http.MethodGet)
	router.HandleFunc("/templates/upload", s.handleUploadTemplate).Methods(http.MethodPost)
	router.HandleFunc("/templates/{id}/analyze", s.handleAnalyze).Methods(http.MethodGet)
	router.HandleFunc("/templates/{id}/fill", s.handleFill).Methods(http.MethodPost)

	router.HandleFunc("/generate", s.handleGenerate).Methods(http.MethodPost)
	router.HandleFunc("/generate/from-json", s.handleGenerateFromJSON).Methods(http.MethodPost)

	router.HandleFunc(downloadPrefix+"{filename}", s.handleDownload).Methods(http.MethodGet)
	router.HandleFunc("/files/{filename}", s.handleDelete).Methods(http.MethodDelete)

	if metrics != nil {
		router.Handle(metricsPath, metrics.Handler()).Methods(http.MethodGet)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "not_found", "Resource not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})

	router.Use(s.metricsMiddleware(metrics))

	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.GetCORSOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	// Outermost first: recovery -> logging -> rate limiting -> security -> cors -> router
	var handler http.Handler = c.Handler(router)
	handler = securityHeadersMiddleware(handler)
	handler = rateLimitMiddleware(handler, s.limiter, s.config.GetRateLimit())
	handler = loggingMiddleware(handler, s.logger)
	handler = recoveryMiddleware(handler, s.logger)

	return handler
}

var _ ports.HTTPServer = (*Server)(nil)
