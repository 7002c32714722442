package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deskmate/deskmate/internal/instrumentation"
)

const (
	// DefaultMetricsAddr is the default bind address for the metrics
	// listener.
	DefaultMetricsAddr = ":9090"

	// DefaultShutdownTimeout bounds graceful shutdown of the serving
	// surfaces.
	DefaultShutdownTimeout = 30 * time.Second
)

// MetricsServer serves Prometheus metrics and health probes on a
// dedicated port, keeping operational endpoints off the API listener.
type MetricsServer struct {
	httpServer *http.Server
	addr       string
	health     *HealthChecker
}

// NewMetricsServer creates the metrics listener. The instrumentation
// provider must be enabled; otherwise there is nothing to expose.
func NewMetricsServer(addr string, provider *instrumentation.Provider, health *HealthChecker) (*MetricsServer, error) {
	if addr == "" {
		addr = DefaultMetricsAddr
	}
	if provider == nil || !provider.Enabled() {
		return nil, fmt.Errorf("instrumentation provider is not enabled")
	}

	return &MetricsServer{addr: addr, health: health}, nil
}

// Start serves until Shutdown. Run it in a goroutine for non-blocking
// operation.
func (s *MetricsServer) Start() error {
	mux := http.NewServeMux()

	// The OTel prometheus exporter feeds the global Prometheus
	// registry, which promhttp.Handler exposes.
	mux.Handle("/metrics", promhttp.Handler())
	if s.health != nil {
		s.health.RegisterHealthEndpoints(mux)
	}

	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	slog.Info("starting metrics server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the metrics listener.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		slog.Info("shutting down metrics server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the configured bind address.
func (s *MetricsServer) Addr() string {
	return s.addr
}
