// Package restytransport adapts a resty client to the dnapi Transport
// interface, for consumers that already standardize on resty for shared
// proxies, debug tracing, or middleware.
package restytransport

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Transport executes requests through a resty.Client.
type Transport struct {
	client *resty.Client
}

// New creates a transport over a fresh resty client with the given
// timeout.
func New(timeout time.Duration) *Transport {
	return &Transport{client: resty.New().SetTimeout(timeout)}
}

// NewWithClient wraps an existing resty client, keeping its middleware,
// proxy, and TLS settings.
func NewWithClient(client *resty.Client) *Transport {
	return &Transport{client: client}
}

// Do executes an assembled request. Headers and body pass through
// untouched; the buffered resty response is rebuilt into an
// *http.Response so multi-value headers and raw body bytes survive
// normalization.
func (t *Transport) Do(req *http.Request) (*http.Response, error) {
	r := t.client.R().SetContext(req.Context())
	r.Header = req.Header.Clone()

	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		r.SetBody(body)
	}

	resp, err := r.Execute(req.Method, req.URL.String())
	if err != nil {
		return nil, err
	}

	return &http.Response{
		Status:        resp.Status(),
		StatusCode:    resp.StatusCode(),
		Proto:         resp.Proto(),
		Header:        resp.Header().Clone(),
		Body:          io.NopCloser(bytes.NewReader(resp.Body())),
		ContentLength: resp.Size(),
		Request:       req,
	}, nil
}
