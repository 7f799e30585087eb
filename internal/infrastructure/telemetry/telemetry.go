package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mrops-br/catalog-ui/internal/infrastructure/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
)

// Telemetry holds all OpenTelemetry components
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Logger         *slog.Logger
	Registry       *prometheus.Registry

	closers []io.Closer
}

// NewTelemetry initializes all OpenTelemetry components
func NewTelemetry(otlp *config.OTLPConfig, logCfg *config.LogConfig) (*Telemetry, error) {
	// Initialize logger first for debugging
	logger, logFile, err := initLogger(otlp, logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Initializing OpenTelemetry",
		slog.String("endpoint", otlp.Endpoint),
		slog.String("service_name", otlp.ServiceName),
	)

	tp, err := initTracerProvider(otlp)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	logger.Info("Tracer provider initialized successfully")

	// Meter provider with dual readers (OTLP + Prometheus)
	registry := newRegistry()
	mp, conn, err := initMeterProvider(otlp, registry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}

	otel.SetMeterProvider(mp)
	logger.Info("Meter provider initialized successfully (OTLP + Prometheus exporters)")

	t := &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Logger:         logger,
		Registry:       registry,
	}
	t.closers = appendCloser(t.closers, conn)
	t.closers = appendCloser(t.closers, logFile)
	return t, nil
}

// NewNoOpTelemetry creates a telemetry instance whose providers export
// nothing over OTLP. Prometheus metrics are still collected.
func NewNoOpTelemetry(otlp *config.OTLPConfig, logCfg *config.LogConfig) (*Telemetry, error) {
	logger, logFile, err := initLogger(otlp, logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	tp := sdktrace.NewTracerProvider()

	registry := newRegistry()
	reader, err := newPrometheusReader(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	mp := metric.NewMeterProvider(metric.WithReader(reader))

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	logger.Info("Telemetry initialized in no-op mode (export disabled)")

	t := &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Logger:         logger,
		Registry:       registry,
	}
	t.closers = appendCloser(t.closers, logFile)
	return t, nil
}

// MetricsHandler serves the Prometheus exposition of the registry
func (t *Telemetry) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(t.Registry, promhttp.HandlerOpts{Registry: t.Registry})
}

// Shutdown gracefully shuts down all telemetry components
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.Logger.Info("Shutting down OpenTelemetry")

	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown tracer provider", slog.String("error", err.Error()))
		return err
	}

	if err := t.MeterProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown meter provider", slog.String("error", err.Error()))
		return err
	}

	t.Logger.Info("OpenTelemetry shutdown successfully")

	for _, c := range t.closers {
		if err := c.Close(); err != nil {
			return err
		}
	}
	return nil
}

func appendCloser(closers []io.Closer, c io.Closer) []io.Closer {
	switch v := c.(type) {
	case nil:
		return closers
	case *grpc.ClientConn:
		if v == nil {
			return closers
		}
	}
	return append(closers, c)
}
