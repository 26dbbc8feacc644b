package dnapi

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"time"
)

// DefaultTimeout is the fixed request timeout set on the default transport
// at construction. It is not overridable per call.
const DefaultTimeout = 10 * time.Second

// Transport executes assembled HTTP requests. *http.Client satisfies it.
// Implementations own connection pooling, TLS state, and any retry or
// throttling behavior; the dispatcher adds none of its own.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// TLSPolicy is the client's certificate verification directive, handed to
// the default transport when it is built. The zero value verifies against
// the system pool. Insecure disables verification entirely; CAFile
// replaces the system pool with a PEM bundle. An injected Transport owns
// its own TLS configuration and ignores this.
type TLSPolicy struct {
	Insecure bool
	CAFile   string
}

func (p TLSPolicy) tlsConfig() (*tls.Config, error) {
	if p.Insecure {
		return &tls.Config{InsecureSkipVerify: true}, nil
	}
	if p.CAFile == "" {
		return nil, nil
	}

	pem, err := os.ReadFile(p.CAFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA bundle: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates parsed from %s", p.CAFile)
	}
	return &tls.Config{RootCAs: pool}, nil
}

// newDefaultTransport builds the production transport: a pooled net/http
// client with the fixed timeout and the TLS policy applied.
func newDefaultTransport(timeout time.Duration, policy TLSPolicy) (Transport, error) {
	tlsCfg, err := policy.tlsConfig()
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig:     tlsCfg,
		},
	}, nil
}
