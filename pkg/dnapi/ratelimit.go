package dnapi

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitedTransport caps the outbound request rate before delegating to
// the wrapped transport. Throttling is a transport concern, so this is an
// opt-in decorator; the default client applies none.
type RateLimitedTransport struct {
	next    Transport
	limiter *rate.Limiter
}

// NewRateLimitedTransport wraps next with a token bucket of rps requests
// per second and the given burst.
func NewRateLimitedTransport(next Transport, rps float64, burst int) *RateLimitedTransport {
	return &RateLimitedTransport{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Do waits for a token, honoring the request context, then delegates.
func (t *RateLimitedTransport) Do(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.Do(req)
}
