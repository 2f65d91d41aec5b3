package observability

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"careerfit/internal/config"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// PrometheusConfig holds Prometheus-specific configuration
type PrometheusConfig struct {
	Enabled  bool
	Endpoint string
	Port     string
}

// newPrometheusReader builds an OTel reader backed by a private registry,
// which also carries the Go runtime and process collectors, and the handler
// exposing that registry.
func newPrometheusReader() (sdkmetric.Reader, http.Handler, error) {
	registry := promclient.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	return exporter, handler, nil
}

// servePrometheus binds cfg.Port synchronously, so a taken port is reported
// at startup, then serves handler at cfg.Endpoint in the background.
func servePrometheus(cfg PrometheusConfig, handler http.Handler) (*http.Server, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle("GET "+endpoint, handler)

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for Prometheus scrapes: %w", err)
	}

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("Prometheus server error: %v", err)
		}
	}()

	log.Printf("Prometheus metrics on %s%s", ln.Addr(), endpoint)
	return server, nil
}

// setupPrometheus registers the reader and the scrape server, whose
// shutdown joins the manager's.
func (om *ObservabilityManager) setupPrometheus() (sdkmetric.Reader, error) {
	reader, handler, err := newPrometheusReader()
	if err != nil {
		return nil, err
	}
	server, err := servePrometheus(om.config.Prometheus, handler)
	if err != nil {
		return nil, err
	}
	om.shutdownFuncs = append(om.shutdownFuncs, func(ctx context.Context) error {
		return server.Shutdown(ctx)
	})
	return reader, nil
}

// GetPrometheusConfig extracts the Prometheus settings from cfg
func GetPrometheusConfig(cfg *config.Config) PrometheusConfig {
	if cfg == nil {
		return PrometheusConfig{Endpoint: "/metrics", Port: "9090"}
	}
	return PrometheusConfig{
		Enabled:  cfg.Observability.Prometheus.Enabled,
		Endpoint: cfg.Observability.Prometheus.Endpoint,
		Port:     cfg.Observability.Prometheus.Port,
	}
}
