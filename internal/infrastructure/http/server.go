package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/catalog-ui/internal/infrastructure/config"
	"github.com/mrops-br/catalog-ui/internal/infrastructure/http/handler"
	"github.com/mrops-br/catalog-ui/internal/infrastructure/http/middleware"
	"github.com/mrops-br/catalog-ui/internal/infrastructure/http/response"
	"github.com/mrops-br/catalog-ui/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	config    *config.ServerConfig
	handler   *handler.CatalogHandler
	logger    *slog.Logger
	telemetry *telemetry.Telemetry
	http      *http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.ServerConfig,
	handler *handler.CatalogHandler,
	logger *slog.Logger,
	telem *telemetry.Telemetry,
) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		handler:   handler,
		logger:    logger,
		telemetry: telem,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	// request ids must exist before the request log reads them
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
}

func (s *Server) setupRoutes() {
	meter := s.telemetry.MeterProvider.Meter("catalog-ui")

	// inline middleware runs after routing, so route patterns are known
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.HTTPRouteContext())
		r.Use(middleware.ActiveRequestsMiddleware(meter))
		r.Use(middleware.DurationMillisecondsMiddleware(meter))
		s.handler.Routes(r)
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Text(w, http.StatusOK, "OK")
	})

	s.router.Handle("/metrics", s.telemetry.MetricsHandler())
}

// Handler returns the router wrapped with otelhttp tracing and metrics
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithTracerProvider(s.telemetry.TracerProvider),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("http.route", middleware.RoutePattern(r)),
			}
		}),
	)
}

// Start listens until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		slog.String("address", s.http.Addr),
	)

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for active requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
