// Package app wires the report server together: configuration, logging,
// OpenTelemetry, services, router, and graceful shutdown.
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

	"visacli/internal/config"
	"visacli/internal/geo"
	"visacli/internal/infrastructure"
	customMiddleware "visacli/internal/middleware"
	"visacli/internal/services"
	transport "visacli/internal/transport/http"
	"visacli/internal/visa"
)

// Application holds the assembled report server.
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Router        chi.Router
	Server        *http.Server

	datasets *services.DatasetService
	reports  *services.ReportService
	health   *services.HealthService
}

// NewApplication builds the application from configuration.
func NewApplication(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("initialize telemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}
	app.setupRouter()
	app.createServer()

	return app, nil
}

func (a *Application) initializeServices() error {
	if err := a.Config.EnsureDirectories(); err != nil {
		return err
	}

	pipeline := visa.NewPipeline(geo.NewTableClassifier(), a.Logger)
	if a.OTelProviders.Meter != nil {
		metrics, err := infrastructure.CreatePipelineMetrics(a.OTelProviders.Meter)
		if err != nil {
			return fmt.Errorf("create pipeline metrics: %w", err)
		}
		pipeline.SetMetrics(metrics)
	}

	a.datasets = services.NewDatasetService(a.Config, pipeline, a.Logger)
	a.reports = services.NewReportService(a.Config.Paths.ReportsDir, a.Logger)
	a.health = services.NewHealthService(infrastructure.ServiceVersion, "", a.datasets, a.Logger)
	return nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.NewRateLimiter(
		a.Config.Server.RateLimitRPS,
		a.Config.Server.RateLimitBurst,
		a.Logger,
	).Handler)
	r.Use(customMiddleware.SecurityHeaders)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/reports", transport.NewReportHandler(a.reports, a.Logger).Routes())
		r.Mount("/health", transport.NewHealthHandler(a.health, a.Logger).Routes())
		r.Mount("/", transport.NewDataHandler(a.datasets, a.Logger).Routes())
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts the HTTP server and loads the newest workbook in the
// background so the API comes up immediately.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting report server",
		slog.String("version", infrastructure.ServiceVersion),
		slog.Int("port", a.Config.Server.Port),
		slog.String("input_dir", a.Config.Paths.InputDir),
		slog.String("reports_dir", a.Config.Paths.ReportsDir))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	go func() {
		if _, err := a.datasets.LoadLatest(ctx); err != nil {
			a.Logger.WarnContext(ctx, "no dataset loaded at startup",
				slog.String("error", err.Error()))
		}
	}()

	a.Logger.InfoContext(ctx, "report server started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down report server")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down telemetry",
				slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "error closing log file",
			slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}

// Run runs the application until interrupted.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
