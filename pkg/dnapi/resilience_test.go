package dnapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResilientTransport_Retry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("success"))
	}))
	defer server.Close()

	rt := NewResilientTransport(&http.Client{})

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := rt.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, attempts)
}

func TestResilientTransport_ReplaysBodyOnRetry(t *testing.T) {
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		if len(bodies) < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rt := NewResilientTransport(&http.Client{})

	req, err := http.NewRequest(http.MethodPost, server.URL, strings.NewReader("username=foo"))
	require.NoError(t, err)
	resp, err := rt.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Len(t, bodies, 2)
	assert.Equal(t, "username=foo", bodies[0])
	assert.Equal(t, "username=foo", bodies[1], "retried attempt must carry the full body")
}

func TestResilientTransport_CircuitBreaker(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	rt := NewResilientTransport(&http.Client{})

	// The breaker opens at 5 failures out of 10; exhaust it.
	for i := 0; i < 6; i++ {
		req, err := http.NewRequest(http.MethodGet, server.URL, nil)
		require.NoError(t, err)
		if resp, doErr := rt.Do(req); doErr == nil {
			resp.Body.Close()
		}
	}

	startAttempts := attempts
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	_, err = rt.Do(req)
	assert.Error(t, err, "open breaker must fail fast")
	assert.Equal(t, startAttempts, attempts, "open breaker must not reach the server")
}
