// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package gateway provides typed access to the food data service.
//
// The service exposes four read-only endpoints:
//
//	GET /                  health
//	GET /stats             aggregate statistics
//	GET /products          paginated, filtered product search
//	GET /products/{id}     single product detail
//
// Gateway is the interface consumed by the catalog, detail and overview
// controllers. HTTPGateway is the production implementation; MockGateway is
// a configurable test double.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/fooddata/pkg/telemetry"
)

// =============================================================================
// INTERFACES
// =============================================================================

// Gateway is the data service contract.
//
// # Description
//
// Health fails with ErrServiceUnavailable. Stats and Products fail with a
// *FetchError (errors.Is(err, ErrFetch)). Product fails with ErrNotFound for
// an unknown id and a *FetchError otherwise.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type Gateway interface {
	Health(ctx context.Context) error
	Stats(ctx context.Context) (*AggregateStats, error)
	Products(ctx context.Context, q ProductQuery) (*ProductPage, error)
	Product(ctx context.Context, id int64) (*ProductDetail, error)
}

// HTTPClient abstracts the transport so tests can substitute it.
//
// # Examples
//
//	type stubClient struct {
//	    DoFunc func(*http.Request) (*http.Response, error)
//	}
//
//	func (s *stubClient) Do(req *http.Request) (*http.Response, error) {
//	    return s.DoFunc(req)
//	}
//
// # Assumptions
//
//   - Caller closes the response body
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// =============================================================================
// CONFIGURATION
// =============================================================================

const (
	// MinTimeout is the floor applied to Config.Timeout.
	MinTimeout = 1 * time.Second

	// DefaultTimeout is used when Config.Timeout is unset.
	DefaultTimeout = 10 * time.Second

	// maxBodyBytes caps decoded response bodies.
	maxBodyBytes = 8 << 20

	tracerName = "fooddata.gateway"
)

// Config configures an HTTPGateway.
type Config struct {
	// BaseURL is the data service root, e.g. "http://localhost:8000".
	BaseURL string

	// Timeout bounds every request. Values below MinTimeout are raised.
	Timeout time.Duration

	// RateLimit is the sustained requests per second. Zero disables limiting.
	RateLimit float64

	// Burst is the limiter bucket size. Defaults to 1 when limiting is on.
	Burst int

	// UserAgent is sent on every request.
	UserAgent string

	// Client overrides the transport. Defaults to an *http.Client.
	Client HTTPClient

	// Logger receives request logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// =============================================================================
// METRICS
// =============================================================================

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fooddata",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Data service requests by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fooddata",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Data service request latency",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"op"},
	)

	statsCoalesced = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fooddata",
			Subsystem: "gateway",
			Name:      "stats_coalesced_total",
			Help:      "Stats calls answered by an in-flight request",
		},
	)
)

// =============================================================================
// HTTP GATEWAY
// =============================================================================

// HTTPGateway implements Gateway over HTTP/JSON.
//
// # Description
//
// Every request carries an X-Request-ID and the W3C trace context of ctx.
// Concurrent Stats calls share one upstream request. When RateLimit is set,
// requests wait for a token and fail with a *FetchError if ctx ends first.
//
// # Thread Safety
//
// Safe for concurrent use.
type HTTPGateway struct {
	base      *url.URL
	client    HTTPClient
	limiter   *rate.Limiter
	userAgent string
	timeout   time.Duration
	logger    *slog.Logger
	group     singleflight.Group
}

var _ Gateway = (*HTTPGateway)(nil)

// NewHTTPGateway validates cfg and builds a gateway.
func NewHTTPGateway(cfg Config) (*HTTPGateway, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q: scheme must be http or https", cfg.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("base URL %q: missing host", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if timeout < MinTimeout {
		timeout = MinTimeout
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "fooddata-cli"
	}

	return &HTTPGateway{
		base:      base,
		client:    client,
		timeout:   timeout,
		limiter:   limiter,
		userAgent: userAgent,
		logger:    logger.With("component", "gateway"),
	}, nil
}

// BaseURL returns the configured service root.
func (g *HTTPGateway) BaseURL() string {
	return g.base.String()
}

// Health probes GET /.
func (g *HTTPGateway) Health(ctx context.Context) error {
	resp, err := g.do(ctx, "health", "/", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: HTTP %d", ErrServiceUnavailable, resp.StatusCode)
	}
	return nil
}

// Stats fetches GET /stats. Concurrent callers share one request, which is
// bounded by the gateway timeout rather than by any caller's ctx; a caller
// whose ctx ends stops waiting without failing the others.
func (g *HTTPGateway) Stats(ctx context.Context) (*AggregateStats, error) {
	ch := g.group.DoChan("stats", func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
		defer cancel()

		var stats AggregateStats
		if err := g.getJSON(fctx, "stats", "/stats", nil, &stats); err != nil {
			return nil, err
		}
		return &stats, nil
	})

	select {
	case <-ctx.Done():
		return nil, &FetchError{Op: "stats", Err: ctx.Err()}
	case r := <-ch:
		if r.Shared {
			statsCoalesced.Inc()
		}
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*AggregateStats), nil
	}
}

// Products fetches one page of GET /products.
func (g *HTTPGateway) Products(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	if err := q.Validate(); err != nil {
		return nil, &FetchError{Op: "products", Err: err}
	}

	var page ProductPage
	if err := g.getJSON(ctx, "products", "/products", q.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Product fetches GET /products/{id}.
func (g *HTTPGateway) Product(ctx context.Context, id int64) (*ProductDetail, error) {
	var detail ProductDetail
	err := g.getJSON(ctx, "product", "/products/"+strconv.FormatInt(id, 10), nil, &detail)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &detail, nil
}

// getJSON performs a GET and decodes a 2xx body into out. Every failure is
// returned as a *FetchError.
func (g *HTTPGateway) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	resp, err := g.do(ctx, op, path, query)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxBodyBytes)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{Op: op, StatusCode: resp.StatusCode, Err: readDetail(body)}
	}
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return &FetchError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// do sends one instrumented GET request.
func (g *HTTPGateway) do(ctx context.Context, op, path string, query url.Values) (*http.Response, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Gateway."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.route", path)),
	)
	defer span.End()

	requestID := uuid.NewString()
	logger := telemetry.LoggerWithTrace(ctx, g.logger).With("op", op, "request_id", requestID)

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			requestsTotal.WithLabelValues(op, "rate_limited").Inc()
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	u := *g.base
	u.Path = strings.TrimRight(g.base.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	req = telemetry.PropagateToRequest(ctx, req)

	start := time.Now()
	resp, err := g.client.Do(req)
	elapsed := time.Since(start)
	requestDuration.WithLabelValues(op).Observe(elapsed.Seconds())

	if err != nil {
		requestsTotal.WithLabelValues(op, "transport_error").Inc()
		telemetry.RecordError(span, err)
		logger.Debug("request failed", "url", u.String(), "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		requestsTotal.WithLabelValues(op, "ok").Inc()
		telemetry.SetSpanOK(span)
	} else {
		requestsTotal.WithLabelValues(op, "http_"+strconv.Itoa(resp.StatusCode)).Inc()
		telemetry.RecordError(span, fmt.Errorf("HTTP %d", resp.StatusCode))
	}
	logger.Debug("request complete",
		"url", u.String(),
		"status", resp.StatusCode,
		"duration_ms", elapsed.Milliseconds(),
	)
	return resp, nil
}

// readDetail extracts the service's {"detail": "..."} message, if present.
func readDetail(body io.Reader) error {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil || len(payload.Detail) == 0 {
		return nil
	}
	var msg string
	if err := json.Unmarshal(payload.Detail, &msg); err == nil {
		return errors.New(msg)
	}
	return errors.New(string(payload.Detail))
}
