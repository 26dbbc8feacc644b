package dnapi

import (
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

// ResilientTransport wraps another transport with retry and circuit
// breaker policies. Retrying lives at the transport layer; the dispatcher
// itself never retries, so resilience stays strictly opt-in.
type ResilientTransport struct {
	next     Transport
	pipeline failsafe.Executor[*http.Response]
}

// NewResilientTransport builds the decorator with the default policies:
// up to 3 retries with 100ms-2s backoff on network errors, 5xx and 429,
// and a breaker that opens after 5 failures out of 10 with a 10s recovery
// delay.
func NewResilientTransport(next Transport) *ResilientTransport {
	retryPolicy := retrypolicy.NewBuilder[*http.Response]().
		HandleIf(func(resp *http.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		}).
		WithBackoff(100*time.Millisecond, 2*time.Second).
		WithMaxRetries(3).
		Build()

	breaker := circuitbreaker.NewBuilder[*http.Response]().
		HandleIf(func(resp *http.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp.StatusCode >= 500
		}).
		WithFailureThresholdRatio(5, 10).
		WithDelay(10 * time.Second).
		Build()

	return &ResilientTransport{
		next:     next,
		pipeline: failsafe.With[*http.Response](retryPolicy, breaker),
	}
}

// Do executes the request through the policy pipeline.
func (t *ResilientTransport) Do(req *http.Request) (*http.Response, error) {
	return t.pipeline.GetWithExecution(func(exec failsafe.Execution[*http.Response]) (*http.Response, error) {
		// Retried attempts need a fresh body.
		if req.Body != nil && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			req.Body = body
		}
		return t.next.Do(req)
	})
}
