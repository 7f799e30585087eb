package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/catalog-ui/internal/app/controller"
	"github.com/mrops-br/catalog-ui/internal/domain"
	"github.com/mrops-br/catalog-ui/internal/infrastructure/apiclient"
	"github.com/mrops-br/catalog-ui/internal/infrastructure/config"
	apphttp "github.com/mrops-br/catalog-ui/internal/infrastructure/http"
	"github.com/mrops-br/catalog-ui/internal/infrastructure/http/handler"
	"github.com/mrops-br/catalog-ui/internal/infrastructure/http/session"
	"github.com/mrops-br/catalog-ui/internal/infrastructure/http/view"
	"github.com/mrops-br/catalog-ui/internal/infrastructure/repository/memory"
	"github.com/mrops-br/catalog-ui/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var telem *telemetry.Telemetry
	if cfg.OTLP.Enabled {
		telem, err = telemetry.NewTelemetry(&cfg.OTLP, &cfg.Log)
	} else {
		telem, err = telemetry.NewNoOpTelemetry(&cfg.OTLP, &cfg.Log)
	}
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer("catalog-ui")
	meter := telem.MeterProvider.Meter("catalog-ui")
	logger := telem.Logger

	logger.Info("Starting catalog UI",
		slog.String("backend", cfg.Catalog.Backend),
	)

	api := newProductAPI(&cfg.Catalog, tracer, logger)

	policy := controller.LogDeleteFailures
	if cfg.Catalog.AlertAllFailures {
		policy = controller.AlertMutationFailures
	}
	guard := controller.NewInFlight()

	sessions, err := session.NewManager(cfg.Session.Secret, cfg.Catalog.MaxSessions,
		func(surface controller.Surface) *controller.CatalogController {
			return controller.NewCatalogController(api, surface, tracer, meter, logger,
				controller.WithInFlight(guard),
				controller.WithErrorPolicy(policy),
			)
		}, logger)
	if err != nil {
		logger.Error("Failed to create session manager", slog.String("error", err.Error()))
		return
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		logger.Error("Failed to load templates", slog.String("error", err.Error()))
		return
	}

	catalogHandler := handler.NewCatalogHandler(sessions, renderer, logger)
	server := apphttp.NewServer(&cfg.Server, catalogHandler, logger, telem)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}

	logger.Info("Server stopped")
}

func newProductAPI(cfg *config.CatalogConfig, tracer trace.Tracer, logger *slog.Logger) domain.ProductAPI {
	if cfg.Backend == config.BackendMemory {
		return memory.NewProductRepository(tracer, logger)
	}

	client := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.APITimeout,
	}
	return apiclient.NewProductClient(cfg.APIURL, client, tracer, logger)
}
