// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

var (
	// ErrNilContext is returned when Init is called without a context.
	ErrNilContext = errors.New("telemetry: nil context")

	// ErrUnknownExporter is returned for an unrecognised exporter name.
	ErrUnknownExporter = errors.New("telemetry: unknown exporter")
)

// ExporterNone disables a signal.
const ExporterNone = "none"

// Config selects where traces and metrics go.
type Config struct {
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
	Environment    string `yaml:"environment"`

	// TraceExporter is "otlp", "stdout" or "none".
	TraceExporter string `yaml:"trace_exporter" validate:"oneof=otlp stdout none"`

	// MetricExporter is "prometheus", "stdout" or "none". Prometheus metrics
	// are only reachable while something serves MetricsHandler.
	MetricExporter string `yaml:"metric_exporter" validate:"oneof=prometheus stdout none"`

	// OTLPEndpoint is the gRPC collector address for the otlp exporter.
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	OTLPInsecure bool   `yaml:"otlp_insecure"`
}

// DefaultConfig returns defaults for an interactive CLI: no tracing and a
// Prometheus reader that costs nothing until scraped.
//
// FOODDATA_ENV, OTEL_TRACES_EXPORTER, OTEL_METRICS_EXPORTER and
// OTEL_EXPORTER_OTLP_ENDPOINT override the matching fields.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "fooddata",
		ServiceVersion: "0.3.0",
		Environment:    envOr("FOODDATA_ENV", "development"),
		TraceExporter:  envOr("OTEL_TRACES_EXPORTER", ExporterNone),
		MetricExporter: envOr("OTEL_METRICS_EXPORTER", "prometheus"),
		OTLPEndpoint:   envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTLPInsecure:   true,
	}
}

// =============================================================================
// Exporter tables
// =============================================================================

// diagnostics is where the stdout exporters write. Command results own
// stdout, so exporter output goes to stderr.
var diagnostics io.Writer = os.Stderr

var spanExporters = map[string]func(context.Context, Config) (trace.SpanExporter, error){
	"otlp": func(ctx context.Context, cfg Config) (trace.SpanExporter, error) {
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptracegrpc.New(ctx, opts...)
	},
	"stdout": func(context.Context, Config) (trace.SpanExporter, error) {
		return stdouttrace.New(stdouttrace.WithWriter(diagnostics), stdouttrace.WithPrettyPrint())
	},
}

// metricReaders build a reader and, for pull exporters, the handler that
// serves it.
var metricReaders = map[string]func() (metric.Reader, http.Handler, error){
	"prometheus": func() (metric.Reader, http.Handler, error) {
		exp, err := promexporter.New()
		if err != nil {
			return nil, nil, err
		}
		// The default registry also holds the promauto collectors.
		return exp, promhttp.Handler(), nil
	},
	"stdout": func() (metric.Reader, http.Handler, error) {
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(diagnostics), stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, nil, err
		}
		return metric.NewPeriodicReader(exp), nil, nil
	},
}

// =============================================================================
// Init
// =============================================================================

// Init installs the global tracer and meter providers and the W3C
// propagator.
//
// # Inputs
//
//	ctx - used while connecting exporters.
//	cfg - exporter selection. "none" or "" leaves a signal on the no-op
//	      global provider.
//
// # Outputs
//
//	shutdown - flushes and stops every installed provider. Always call it.
//	error - an exporter is unknown or could not be created. Nothing is
//	        installed in that case.
//
// # Thread Safety
//
// Call once at startup.
func Init(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	res := resource.NewWithAttributes("",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
		attribute.String("deployment.environment", cfg.Environment),
	)

	var tp *trace.TracerProvider
	if enabled(cfg.TraceExporter) {
		build, ok := spanExporters[cfg.TraceExporter]
		if !ok {
			return nil, fmt.Errorf("%w: trace exporter %q", ErrUnknownExporter, cfg.TraceExporter)
		}
		exp, err := build(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("trace exporter %s: %w", cfg.TraceExporter, err)
		}
		tp = trace.NewTracerProvider(
			trace.WithBatcher(exp),
			trace.WithResource(res),
			trace.WithSampler(trace.ParentBased(trace.AlwaysSample())),
		)
	}

	var mp *metric.MeterProvider
	var handler http.Handler
	if enabled(cfg.MetricExporter) {
		build, ok := metricReaders[cfg.MetricExporter]
		if !ok {
			shutdownTracer(ctx, tp)
			return nil, fmt.Errorf("%w: metric exporter %q", ErrUnknownExporter, cfg.MetricExporter)
		}
		reader, h, err := build()
		if err != nil {
			shutdownTracer(ctx, tp)
			return nil, fmt.Errorf("metric exporter %s: %w", cfg.MetricExporter, err)
		}
		mp = metric.NewMeterProvider(metric.WithResource(res), metric.WithReader(reader))
		handler = h
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	if tp != nil {
		otel.SetTracerProvider(tp)
	}
	if mp != nil {
		otel.SetMeterProvider(mp)
	}
	setMetricsHandler(handler)

	return func(ctx context.Context) error {
		var errs []error
		if tp != nil {
			errs = append(errs, tp.Shutdown(ctx))
		}
		if mp != nil {
			errs = append(errs, mp.Shutdown(ctx))
		}
		return errors.Join(errs...)
	}, nil
}

func enabled(exporter string) bool {
	return exporter != "" && exporter != ExporterNone
}

func shutdownTracer(ctx context.Context, tp *trace.TracerProvider) {
	if tp != nil {
		_ = tp.Shutdown(ctx)
	}
}

// =============================================================================
// Metrics endpoint
// =============================================================================

var (
	metricsMu      sync.RWMutex
	metricsHandler http.Handler
)

func setMetricsHandler(h http.Handler) {
	metricsMu.Lock()
	metricsHandler = h
	metricsMu.Unlock()
}

// MetricsHandler returns the /metrics handler installed by the last Init,
// or nil unless the prometheus exporter is active. It serves the OTel
// instruments and the promauto collectors of the gateway and controllers.
func MetricsHandler() http.Handler {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return metricsHandler
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
