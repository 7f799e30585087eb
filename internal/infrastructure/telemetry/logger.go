package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mrops-br/catalog-ui/internal/infrastructure/config"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Context key for storing HTTP route
type contextKey string

const httpRouteKey contextKey = "http.route"

// WithHTTPRoute adds the HTTP route to the context
func WithHTTPRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, httpRouteKey, route)
}

// HTTPRouteFromContext extracts the HTTP route from context
func HTTPRouteFromContext(ctx context.Context) string {
	if route, ok := ctx.Value(httpRouteKey).(string); ok {
		return route
	}
	return ""
}

// traceContextHandler is a custom slog handler that injects trace context
type traceContextHandler struct {
	handler slog.Handler
}

// Enabled reports whether the handler handles records at the given level
func (h *traceContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle adds trace_id, span_id, and http.route to log records from the context
func (h *traceContextHandler) Handle(ctx context.Context, r slog.Record) error {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		r.AddAttrs(
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("span_id", span.SpanContext().SpanID().String()),
		)
	}

	if route := HTTPRouteFromContext(ctx); route != "" {
		r.AddAttrs(slog.String("http.route", route))
	}

	return h.handler.Handle(ctx, r)
}

// WithAttrs returns a new handler with additional attributes
func (h *traceContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceContextHandler{
		handler: h.handler.WithAttrs(attrs),
	}
}

// WithGroup returns a new handler with the given group name
func (h *traceContextHandler) WithGroup(name string) slog.Handler {
	return &traceContextHandler{
		handler: h.handler.WithGroup(name),
	}
}

// NewLogger creates a structured JSON logger with trace context injection
func NewLogger(w io.Writer, level slog.Leveler, otlp *config.OTLPConfig) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(&traceContextHandler{handler: jsonHandler}).With(
		slog.String("service.name", otlp.ServiceName),
		slog.String("environment", otlp.Environment),
	)
}

// initLogger builds the process logger. When a log file is configured the
// output is teed to stdout and a rotating file, which the caller must close.
func initLogger(otlp *config.OTLPConfig, logCfg *config.LogConfig) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logCfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", logCfg.Level, err)
	}

	if logCfg.File == "" {
		return NewLogger(os.Stdout, level, otlp), nil, nil
	}

	file := &lumberjack.Logger{
		Filename:   logCfg.File,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     7,
	}
	return NewLogger(io.MultiWriter(os.Stdout, file), level, otlp), file, nil
}
