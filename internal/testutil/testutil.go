package testutil

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/mcoot/pinochle-score/internal/metrics"
)

// NopLogger returns a logger that discards all output
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// NopTracer returns a tracer whose spans are dropped
func NopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer("test")
}

// NewMetrics returns metrics registered on a private registry, so tests
// can create as many as they need
func NewMetrics() (*metrics.Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return metrics.New(reg), reg
}
