// Package dnapi is a client for the DN REST API. It dispatches signed
// GET/POST requests with per-method option validation and returns raw
// normalized responses; body parsing belongs to the caller.
package dnapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dnclient/pkg/auth"
	"dnclient/pkg/telemetry"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseHost is the production API endpoint.
const DefaultBaseHost = "https://api.example.com"

// Authenticator produces the Authorization header value for one request.
// auth.Signer is the production implementation.
type Authenticator interface {
	AuthHeader(method, path, date string) string
}

// Config fixes a client's behavior at construction. Fields are read, never
// written, during requests, which is what makes a Client safe for
// concurrent use.
type Config struct {
	// BaseHost is the scheme+host requests are resolved against.
	BaseHost string
	// DefaultFormat drives Accept negotiation for calls without a format
	// option. Unrecognized names mean no Accept header.
	DefaultFormat string
	// NoCache adds Cache-Control: no-cache to every request.
	NoCache bool
	// TLS is the verification directive for the default transport.
	TLS TLSPolicy
	// Timeout is the default transport's fixed request timeout.
	Timeout time.Duration
}

// Client dispatches signed requests against the DN API.
type Client struct {
	cfg       Config
	authn     Authenticator
	transport Transport
	logger    Logger

	tracer      trace.Tracer
	reqCounter  metric.Int64Counter
	errCounter  metric.Int64Counter
	latencyHist metric.Float64Histogram
}

// Option configures a Client at construction.
type Option func(*Client)

// WithBaseHost overrides DefaultBaseHost (scheme+host, no trailing slash).
func WithBaseHost(host string) Option {
	return func(c *Client) { c.cfg.BaseHost = host }
}

// WithDefaultFormat overrides the default Accept negotiation ("json").
func WithDefaultFormat(format string) Option {
	return func(c *Client) { c.cfg.DefaultFormat = format }
}

// WithNoCache toggles Cache-Control: no-cache on every request.
func WithNoCache(nocache bool) Option {
	return func(c *Client) { c.cfg.NoCache = nocache }
}

// WithTLSPolicy sets the verification directive for the default transport.
func WithTLSPolicy(policy TLSPolicy) Option {
	return func(c *Client) { c.cfg.TLS = policy }
}

// WithTimeout overrides the default transport's fixed timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.cfg.Timeout = timeout }
}

// WithTransport injects the transport the client dispatches through,
// replacing the default pooled net/http client.
func WithTransport(transport Transport) Option {
	return func(c *Client) { c.transport = transport }
}

// WithAuthenticator injects the Authorization header producer, replacing
// the DN signer built from the constructor's keys.
func WithAuthenticator(authn Authenticator) Option {
	return func(c *Client) { c.authn = authn }
}

// WithLogger attaches a logger for request lifecycle events.
func WithLogger(logger Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the given credentials. secretKey may be empty
// for public-only access. Unset options fall back to production defaults:
// DefaultBaseHost, json format, DefaultTimeout, standard TLS verification,
// pooled transport, DN signer.
func New(publicKey, secretKey string, opts ...Option) (*Client, error) {
	c := &Client{
		cfg: Config{
			BaseHost:      DefaultBaseHost,
			DefaultFormat: FormatJSON,
			Timeout:       DefaultTimeout,
		},
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if publicKey == "" {
		return nil, fmt.Errorf("public key is required")
	}
	if u, err := url.Parse(c.cfg.BaseHost); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base host must be scheme://host, got %q", c.cfg.BaseHost)
	}
	if c.cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %v", c.cfg.Timeout)
	}

	if c.authn == nil {
		c.authn = auth.NewSigner(auth.Credentials{
			PublicKey: publicKey,
			SecretKey: auth.Secret(secretKey),
		})
	}
	if c.transport == nil {
		transport, err := newDefaultTransport(c.cfg.Timeout, c.cfg.TLS)
		if err != nil {
			return nil, err
		}
		c.transport = transport
	}

	meter := telemetry.GetMeter("dnapi")
	c.tracer = telemetry.GetTracer("dnapi")
	c.reqCounter, _ = meter.Int64Counter(telemetry.MetricClientRequestsTotal,
		metric.WithDescription("Total number of dispatched DN API requests"))
	c.errCounter, _ = meter.Int64Counter(telemetry.MetricClientErrorsTotal,
		metric.WithDescription("Total number of DN API requests that failed in the transport"))
	c.latencyHist, _ = meter.Float64Histogram(telemetry.MetricClientRequestDuration,
		metric.WithDescription("DN API request latency in seconds"))

	return c, nil
}

// Config returns the client's construction-time configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Get issues a GET request for path (which must begin with "/").
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.request(ctx, http.MethodGet, path, opts)
}

// Post issues a POST request for path (which must begin with "/").
func (c *Client) Post(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.request(ctx, http.MethodPost, path, opts)
}

func (c *Client) request(ctx context.Context, method, path string, opts []RequestOption) (*Response, error) {
	if err := validateOptions(method, opts); err != nil {
		return nil, err
	}

	var plan requestPlan
	for _, opt := range opts {
		opt.apply(&plan)
	}

	req, err := c.buildRequest(ctx, method, path, &plan)
	if err != nil {
		return nil, err
	}

	return c.do(req)
}

// buildRequest assembles the outgoing request. Order matters: computed
// headers first, caller headers merged over them, body attachments last
// with the caller keeping the final say on Content-Type.
func (c *Client) buildRequest(ctx context.Context, method, path string, plan *requestPlan) (*http.Request, error) {
	var body io.Reader
	if len(plan.form) > 0 {
		body = strings.NewReader(encodeParams(plan.form))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseHost+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if len(plan.query) > 0 {
		req.URL.RawQuery = encodeParams(plan.query)
	}

	req.Header.Set(headerAcceptEncoding, acceptEncodingValue)
	if accept, ok := resolveAccept(plan.format, c.cfg.DefaultFormat); ok {
		req.Header.Set(headerAccept, accept)
	}

	// The signature is computed over the same date string the x-dn-date
	// header carries; the server verifies by recomputing.
	date := time.Now().UTC().Format(http.TimeFormat)
	req.Header.Set(headerAuthorization, c.authn.AuthHeader(method, path, date))
	req.Header.Set(HeaderDate, date)

	if c.cfg.NoCache {
		req.Header.Set(headerCacheControl, cacheControlNoCache)
	}

	for _, h := range plan.headers {
		req.Header.Set(h.Key, h.Value)
	}

	if body != nil && req.Header.Get(headerContentType) == "" {
		req.Header.Set(headerContentType, contentTypeForm)
	}

	return req, nil
}

// do dispatches through the transport and normalizes the result. Transport
// errors propagate unwrapped; non-2xx statuses are not errors.
func (c *Client) do(req *http.Request) (*Response, error) {
	start := time.Now()
	requestID := uuid.NewString()

	ctx, span := c.tracer.Start(req.Context(), fmt.Sprintf("%s %s", req.Method, req.URL.Path),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
		),
	)
	defer span.End()

	req = req.WithContext(ctx)

	c.logger.Debug("dispatching request",
		"request_id", requestID,
		"method", req.Method,
		"path", req.URL.Path)

	resp, err := c.transport.Do(req)

	attrs := metric.WithAttributes(
		attribute.String("method", req.Method),
		attribute.String("path", req.URL.Path),
	)
	c.reqCounter.Add(ctx, 1, attrs)
	c.latencyHist.Record(ctx, time.Since(start).Seconds(), attrs)

	if err != nil {
		span.RecordError(err)
		c.errCounter.Add(ctx, 1, attrs)
		c.logger.Error("request failed",
			"request_id", requestID,
			"method", req.Method,
			"path", req.URL.Path,
			"error", err)
		return nil, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	c.logger.Debug("request complete",
		"request_id", requestID,
		"status", resp.StatusCode,
		"bytes", len(respBody),
		"duration_ms", time.Since(start).Milliseconds())

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}
