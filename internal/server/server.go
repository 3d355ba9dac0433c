package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"GoTokenize/internal/analysis"
	"GoTokenize/internal/config"
	"GoTokenize/internal/indexing"
	"GoTokenize/internal/metrics"
)

// Server wires the tokenizer registry, index manager and metrics into a
// gin engine.
type Server struct {
	cfg      *config.Config
	registry *analysis.Registry
	mgr      *IndexManager
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	cache    *analyzeCache
	logger   *slog.Logger
	version  string

	engine *gin.Engine
}

// Options configures a Server. Zero values get defaults.
type Options struct {
	Config   *config.Config
	Registry *analysis.Registry
	// Registerer and Gatherer default to a fresh prometheus.Registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Logger     *slog.Logger
	Version    string
}

// New builds a Server and registers its routes.
func New(opts Options) (*Server, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	registry := opts.Registry
	if registry == nil {
		registry = analysis.NewRegistry()
	}
	if _, err := registry.Get(cfg.Analysis.DefaultTokenizer); err != nil {
		return nil, fmt.Errorf("default tokenizer: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reg, gatherer := opts.Registerer, opts.Gatherer
	if reg == nil || gatherer == nil {
		r := prometheus.NewRegistry()
		reg, gatherer = r, r
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	cache, err := newAnalyzeCache(cfg.Analysis.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create analyze cache: %w", err)
	}

	m := metrics.MustNewMetrics(reg)
	idxOpts := indexing.DefaultOptions()
	idxOpts.MemoryLimit = cfg.Indexing.MemoryLimit
	idxOpts.MaxDocs = cfg.Indexing.MaxDocs
	idxOpts.OnStream = m.ObserveStream
	idxOpts.Logger = logger

	s := &Server{
		cfg:      cfg,
		registry: registry,
		mgr:      NewIndexManager(registry, idxOpts, logger),
		metrics:  m,
		gatherer: gatherer,
		cache:    cache,
		logger:   logger,
		version:  version,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))
	s.registerRoutes(engine)
	s.engine = engine
	return s, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Indexes returns the server's index manager.
func (s *Server) Indexes() *IndexManager {
	return s.mgr
}

// Run serves HTTP on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
