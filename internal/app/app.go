package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"perfcli/internal/config"
	apierrors "perfcli/internal/errors"
	"perfcli/internal/infrastructure"
	"perfcli/internal/metrics"
	"perfcli/internal/middleware"
	"perfcli/internal/services"
	transport "perfcli/internal/transport/http"
)

// Version is stamped at build time.
var Version = "dev"

// Application wires configuration, logging, metrics, the comparison
// service and the HTTP surface together.
type Application struct {
	config  *config.Config
	logger  *slog.Logger
	metrics *metrics.Recorder
	server  *http.Server
}

// NewApplication creates a fully wired application instance.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger := infrastructure.InitializeLogger(cfg.Logging)
	recorder := metrics.NewRecorder()

	compareService := services.NewCompareService(logger, recorder, cfg.Limits.MaxParallel)
	errorHandler := apierrors.NewErrorHandler(logger)
	compareHandler := transport.NewCompareHandler(compareService, cfg, logger, errorHandler)
	healthHandler := transport.NewHealthHandler(Version)

	router := buildRouter(cfg, logger, recorder, compareHandler, healthHandler)

	app := &Application{
		config:  cfg,
		logger:  logger,
		metrics: recorder,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}
	return app, nil
}

func buildRouter(cfg *config.Config, logger *slog.Logger, recorder *metrics.Recorder, compare *transport.CompareHandler, health *transport.HealthHandler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.MaxBytes(cfg.Limits.MaxUploadBytes))

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, logger)
	r.Use(limiter.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/healthz", health.Health)
		r.Mount("/", compare.Routes())
	})
	r.Method(http.MethodGet, "/metrics", recorder.Handler())

	return r
}

// Run starts the HTTP server and blocks until shutdown.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			slog.String("addr", a.server.Addr),
			slog.String("version", Version))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down",
		slog.String("timeout", a.config.Server.ShutdownTimeout.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
