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
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// StartSpan opens a span on the global tracer called tracerName. End the
// returned span when the operation finishes.
//
//	ctx, span := telemetry.StartSpan(ctx, "fooddata.gateway", "Gateway.Products",
//	    trace.WithAttributes(attribute.Int("page", q.Page)),
//	)
//	defer span.End()
func StartSpan(ctx context.Context, tracerName, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName, opts...)
}

// RecordError attaches err to span as an event and sets the span status to
// Error. It does nothing when either argument is nil.
func RecordError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err, trace.WithAttributes(attrs...))
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanOK sets the span status to Ok.
func SetSpanOK(span trace.Span) {
	if span != nil {
		span.SetStatus(codes.Ok, "")
	}
}

// activeSpan returns the span context carried by ctx, if it is usable.
func activeSpan(ctx context.Context) (trace.SpanContext, bool) {
	if ctx == nil {
		return trace.SpanContext{}, false
	}
	sc := trace.SpanContextFromContext(ctx)
	return sc, sc.IsValid()
}

// TraceID returns the hex trace ID carried by ctx, or "".
func TraceID(ctx context.Context) string {
	if sc, ok := activeSpan(ctx); ok {
		return sc.TraceID().String()
	}
	return ""
}

// LoggerWithTrace adds trace_id and span_id to logger when ctx carries a
// span, so log lines can be joined with traces. A nil logger means
// slog.Default().
func LoggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	sc, ok := activeSpan(ctx)
	if !ok {
		return logger
	}
	return logger.With(
		"trace_id", sc.TraceID().String(),
		"span_id", sc.SpanID().String(),
	)
}

// PropagateToRequest writes the trace context of ctx into the request
// headers with the global propagator and binds req to ctx.
func PropagateToRequest(ctx context.Context, req *http.Request) *http.Request {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	return req.WithContext(ctx)
}
