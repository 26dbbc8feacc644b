// Package probe periodically exercises API endpoints and reports outcomes
package probe

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"dnclient/internal/alert"
	"dnclient/internal/core"
	"dnclient/pkg/concurrency"
	"dnclient/pkg/dnapi"
	"dnclient/pkg/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Requester is the slice of the API client the prober depends on.
type Requester interface {
	Get(ctx context.Context, path string, opts ...dnapi.RequestOption) (*dnapi.Response, error)
	Post(ctx context.Context, path string, opts ...dnapi.RequestOption) (*dnapi.Response, error)
}

// Options configures a Prober
type Options struct {
	Paths       []string
	Method      string
	Interval    time.Duration
	Concurrency int
}

// Result is the outcome of probing a single path
type Result struct {
	Path       string
	StatusCode int
	Duration   time.Duration
	Err        error
}

// Healthy reports whether the endpoint answered with a 2xx status
func (r Result) Healthy() bool {
	return r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", r.Path, r.Err)
	}
	return fmt.Sprintf("%s: HTTP %d", r.Path, r.StatusCode)
}

// Prober sweeps the configured paths on an interval, fanning requests out
// over a worker pool. Failures are alerted on state transitions only, so a
// flapping endpoint produces one alert per transition rather than one per
// sweep. A Prober is single-use: call either Run or RunOnce, once.
type Prober struct {
	client Requester
	opts   Options
	pool   *concurrency.WorkerPool
	alerts *alert.AlertManager
	logger core.ILogger

	mu      sync.Mutex
	healthy map[string]bool

	runsTotal     metric.Int64Counter
	failuresTotal metric.Int64Counter
	duration      metric.Float64Histogram
}

// NewProber creates a Prober. The alert manager is optional.
func NewProber(client Requester, opts Options, alerts *alert.AlertManager, logger core.ILogger) *Prober {
	if opts.Method == "" {
		opts.Method = "GET"
	}
	opts.Method = strings.ToUpper(opts.Method)
	if opts.Interval <= 0 {
		opts.Interval = 60 * time.Second
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	pool := concurrency.NewWorkerPool(concurrency.PoolConfig{
		Name:        "ProbePool",
		MaxWorkers:  opts.Concurrency,
		MaxCapacity: len(opts.Paths) + opts.Concurrency,
	}, logger)

	p := &Prober{
		client:  client,
		opts:    opts,
		pool:    pool,
		alerts:  alerts,
		logger:  logger.WithField("component", "prober"),
		healthy: make(map[string]bool, len(opts.Paths)),
	}

	// Paths start out healthy so the very first failure raises an alert
	for _, path := range opts.Paths {
		p.healthy[path] = true
	}

	meter := telemetry.GetMeter("probe")
	p.runsTotal, _ = meter.Int64Counter(telemetry.MetricProbeRunsTotal,
		metric.WithDescription("Total number of probe requests"))
	p.failuresTotal, _ = meter.Int64Counter(telemetry.MetricProbeFailuresTotal,
		metric.WithDescription("Total number of failed probe requests"))
	p.duration, _ = meter.Float64Histogram(telemetry.MetricProbeDuration,
		metric.WithDescription("Probe request duration in seconds"))

	return p
}

// Run sweeps immediately and then on every interval tick until the context
// is canceled. It implements the bootstrap Runner interface.
func (p *Prober) Run(ctx context.Context) error {
	defer p.pool.Stop()

	p.logger.Info("Starting prober",
		"paths", len(p.opts.Paths),
		"method", p.opts.Method,
		"interval", p.opts.Interval.String(),
		"concurrency", p.opts.Concurrency)

	p.sweep(ctx)

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Prober stopped")
			return ctx.Err()
		case <-ticker.C:
			p.sweep(ctx)
		}
	}
}

// RunOnce performs a single sweep and returns its results. The error is
// non-nil when any path is unhealthy, which lets one-shot callers exit
// with a failure code.
func (p *Prober) RunOnce(ctx context.Context) ([]Result, error) {
	defer p.pool.Stop()

	results := p.sweep(ctx)

	var failed int
	for _, r := range results {
		if !r.Healthy() {
			failed++
		}
	}
	if failed > 0 {
		return results, fmt.Errorf("%d of %d probes failed", failed, len(results))
	}
	return results, nil
}

// sweep probes every configured path concurrently and returns the results
func (p *Prober) sweep(ctx context.Context) []Result {
	start := time.Now()

	var (
		mu      sync.Mutex
		results = make([]Result, 0, len(p.opts.Paths))
		wg      sync.WaitGroup
	)

	for _, path := range p.opts.Paths {
		path := path
		wg.Add(1)
		if err := p.pool.Submit(func() {
			defer wg.Done()
			result := p.probe(ctx, path)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}); err != nil {
			wg.Done()
			p.logger.Error("Failed to submit probe task", "path", path, "error", err)
		}
	}
	wg.Wait()

	healthy := 0
	for _, r := range results {
		if r.Healthy() {
			healthy++
		}
	}
	p.logger.Info("Probe sweep complete",
		"healthy", healthy,
		"total", len(results),
		"elapsed", time.Since(start).String())

	return results
}

// probe issues one request and classifies the outcome
func (p *Prober) probe(ctx context.Context, path string) Result {
	start := time.Now()

	var (
		resp *dnapi.Response
		err  error
	)
	switch p.opts.Method {
	case "POST":
		resp, err = p.client.Post(ctx, path)
	default:
		resp, err = p.client.Get(ctx, path)
	}

	result := Result{
		Path:     path,
		Duration: time.Since(start),
		Err:      err,
	}
	if resp != nil {
		result.StatusCode = resp.StatusCode
	}

	attrs := metric.WithAttributes(
		attribute.String("path", path),
		attribute.String("method", p.opts.Method),
	)
	p.runsTotal.Add(ctx, 1, attrs)
	p.duration.Record(ctx, result.Duration.Seconds(), attrs)

	if result.Healthy() {
		p.logger.Debug("Probe succeeded", "path", path, "status", result.StatusCode, "elapsed", result.Duration.String())
	} else {
		p.failuresTotal.Add(ctx, 1, attrs)
		p.logger.Warn("Probe failed",
			"path", path,
			"status", result.StatusCode,
			"error", err,
			"elapsed", result.Duration.String())
	}

	p.recordTransition(ctx, result)
	return result
}

// recordTransition alerts when a path flips between healthy and unhealthy
func (p *Prober) recordTransition(ctx context.Context, result Result) {
	p.mu.Lock()
	wasHealthy := p.healthy[result.Path]
	p.healthy[result.Path] = result.Healthy()
	p.mu.Unlock()

	if p.alerts == nil || wasHealthy == result.Healthy() {
		return
	}

	fields := map[string]string{
		"path":   result.Path,
		"method": p.opts.Method,
	}
	if result.Err != nil {
		fields["error"] = result.Err.Error()
	} else {
		fields["status"] = fmt.Sprintf("%d", result.StatusCode)
	}

	if result.Healthy() {
		p.alerts.Alert(ctx, "Probe recovered", result.String(), alert.Info, fields)
	} else {
		p.alerts.Alert(ctx, "Probe failed", result.String(), alert.Error, fields)
	}
}
