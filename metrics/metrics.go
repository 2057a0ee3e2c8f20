// Package metrics provides a Prometheus registry together with a
// dedicated HTTP server exposing it on /metrics. The registry is
// shared with other components (for example the workpool
// instrumentation) so all module metrics end up on one endpoint.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer serves a Prometheus registry over HTTP.
type MetricsServer struct {
	registry *prometheus.Registry
	srv      *http.Server
}

// New creates a metrics server listening on addr. The service name is
// attached as a constant label to the default process and Go runtime
// collectors.
func New(service, addr string) (*MetricsServer, error) {
	registry := prometheus.NewRegistry()

	labeled := prometheus.WrapRegistererWith(prometheus.Labels{"service": service}, registry)
	labeled.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &MetricsServer{
		registry: registry,
		srv: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}, nil
}

// Registry returns the registry served by this server. Components that
// want their metrics exposed register against it.
func (m *MetricsServer) Registry() *prometheus.Registry {
	return m.registry
}

// ListenAndServe blocks serving the metrics endpoint.
func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
