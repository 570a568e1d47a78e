// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry provides OpenTelemetry-based observability for the
// fooddata client.
//
// The package configures the OTel SDK once at startup. Gateway calls open a
// span per request and propagate the trace context to the data service through
// W3C traceparent headers, so a slow product search can be followed from the
// terminal into the backend.
//
// # Trace Backend (default: none)
//
// The CLI is a short-lived process, so tracing is off unless requested. Set
// OTEL_TRACES_EXPORTER=otlp to ship spans to a collector, or stdout to print
// them.
//
// # Metrics Backend (default: prometheus)
//
// Metrics are registered with the default Prometheus registry. The browse
// command can expose them on /metrics with --metrics-addr.
//
// # Usage
//
//	shutdown, err := telemetry.Init(ctx, telemetry.DefaultConfig())
//	if err != nil {
//	    return fmt.Errorf("init telemetry: %w", err)
//	}
//	defer shutdown(context.Background())
//
// # Environment Variables
//
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint (default: localhost:4317)
//   - OTEL_TRACES_EXPORTER: otlp, stdout, or none (default: none)
//   - OTEL_METRICS_EXPORTER: prometheus, stdout, or none (default: prometheus)
//   - FOODDATA_ENV: environment name (default: development)
//
// # Thread Safety
//
// All exported functions are safe for concurrent use after Init() returns.
package telemetry
