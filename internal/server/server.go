package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/seqtable/internal/config"
	apperrors "github.com/agbru/seqtable/internal/errors"
	"github.com/agbru/seqtable/internal/logging"
	"github.com/agbru/seqtable/internal/sequence"
	"github.com/agbru/seqtable/internal/service"
)

// Server represents the HTTP server for the table API.
// It wraps the standard http.Server and adds application-specific configuration
// and graceful shutdown capabilities.
type Server struct {
	catalog        sequence.Catalog
	service        service.Service
	cfg            config.AppConfig
	httpServer     *http.Server
	logger         logging.Logger
	shutdownSignal chan os.Signal
	metrics        *Metrics
	timeouts       Timeouts
	rateLimiter    *RateLimiter
	securityConfig SecurityConfig
}

// NewServer creates a new Server instance with the given sequence catalog and configuration.
// It initializes the HTTP server with timeouts and a request multiplexer.
//
// Parameters:
//   - catalog: The sequences the server can tabulate.
//   - cfg: The application configuration (port, max count, concurrency).
//   - opts: Optional functional options for customizing the server (e.g., WithLogger).
//
// Returns:
//   - *Server: A pointer to the initialized Server.
func NewServer(catalog sequence.Catalog, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		catalog:        catalog,
		cfg:            cfg,
		logger:         logging.NewLogger(os.Stdout, "server"),
		shutdownSignal: make(chan os.Signal, 1),
		metrics:        NewMetrics(),
		timeouts:       DefaultServerTimeouts(),
		securityConfig: DefaultSecurityConfig(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.service == nil {
		s.service = service.NewTableService(s.catalog, s.cfg.MaxN, s.cfg.Concurrency, s.logger)
	}

	if s.rateLimiter == nil {
		s.rateLimiter = NewRateLimiter(DefaultRateLimiterConfig())
	}

	mux := http.NewServeMux()

	// Middleware chain: Security -> RateLimit -> Logging -> Metrics -> Handler
	mux.HandleFunc("/table", s.wrapWithMiddleware(s.handleTable))
	mux.HandleFunc("/sequences", s.wrapWithMiddleware(s.handleSequences))
	mux.HandleFunc("/health", s.wrapWithMiddleware(s.handleHealth))
	mux.HandleFunc("/metrics", s.wrapWithMiddleware(s.handleMetrics))

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}

	return s
}

// Handler returns the root handler with every route and middleware installed.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// wrapWithMiddleware applies the full middleware chain to a handler.
func (s *Server) wrapWithMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	wrapped := s.metricsMiddleware(handler)
	wrapped = s.loggingMiddleware(wrapped)
	wrapped = s.rateLimitMiddleware(wrapped)
	wrapped = SecurityMiddleware(s.securityConfig, wrapped)
	return wrapped
}

// Start runs the server until SIGINT or SIGTERM is received.
//
// Returns:
//   - error: An error if the server fails to start or shuts down unexpectedly.
func (s *Server) Start() error {
	return s.Run(context.Background())
}

// Run starts the HTTP server and blocks until ctx is done, a shutdown signal
// arrives, or the listener fails. In-flight requests are drained before it
// returns, within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	signal.Notify(s.shutdownSignal, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(s.shutdownSignal)
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)

	s.logger.Printf("Starting server on %s", s.httpServer.Addr)
	s.logger.Printf("Configuration: max_n=%d, concurrency=%d", s.cfg.MaxN, s.cfg.Concurrency)
	s.logger.Println("Available endpoints:")
	s.logger.Println("  GET /table?seq=<sequence>&n=<count>")
	s.logger.Println("  GET /sequences")
	s.logger.Println("  GET /health")
	s.logger.Println("  GET /metrics")

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-s.shutdownSignal:
		s.logger.Println("Shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		s.logger.Println("Context done, initiating graceful shutdown...")
	case err := <-errCh:
		return apperrors.NewServerError("server failed to start", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return apperrors.NewServerError("failed to gracefully shutdown server", err)
	}

	s.logger.Println("Server stopped gracefully")
	return nil
}
