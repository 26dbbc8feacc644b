package dnapi

import "net/http"

// Response is the normalized result of a dispatched request: the status
// code, the response headers with multi-value entries preserved, and the
// raw body bytes. The client performs no parsing or decoding; the body's
// interpretation belongs to the caller.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
