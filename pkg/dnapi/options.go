package dnapi

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// Option kinds as they appear in the validation table.
const (
	optionFormat  = "format"
	optionHeaders = "headers"
	optionQuery   = "query"
	optionForm    = "form_params"
)

// optionMethods fixes which option kinds each HTTP method accepts.
var optionMethods = map[string][]string{
	optionForm:    {http.MethodPost},
	optionQuery:   {http.MethodGet},
	optionFormat:  {http.MethodGet, http.MethodPost},
	optionHeaders: {http.MethodGet, http.MethodPost},
}

// Param is a single query or form parameter. Parameters are ordered: they
// reach the wire in the order supplied.
type Param struct {
	Key   string
	Value string
}

// requestPlan accumulates what the per-call options contribute to one
// request.
type requestPlan struct {
	format  string
	query   []Param
	form    []Param
	headers []Param
}

// RequestOption customizes a single Get or Post call. Every option is
// validated against the target method before any part of the request is
// built.
type RequestOption struct {
	kind  string
	apply func(*requestPlan)
}

// WithFormat negotiates the Accept header for this call ("json", "xml" or
// "rss", case-insensitive). An unrecognized name silently leaves Accept to
// the client default.
func WithFormat(format string) RequestOption {
	return RequestOption{kind: optionFormat, apply: func(p *requestPlan) {
		p.format = format
	}}
}

// WithQuery appends URL query parameters, encoded in the order given.
// Valid for GET requests only.
func WithQuery(params ...Param) RequestOption {
	return RequestOption{kind: optionQuery, apply: func(p *requestPlan) {
		p.query = append(p.query, params...)
	}}
}

// WithForm appends URL-encoded form body fields, encoded in the order
// given. Valid for POST requests only.
func WithForm(fields ...Param) RequestOption {
	return RequestOption{kind: optionForm, apply: func(p *requestPlan) {
		p.form = append(p.form, fields...)
	}}
}

// WithHeader sets one request header. Caller headers are applied after the
// computed headers, so they win on collision.
func WithHeader(key, value string) RequestOption {
	return RequestOption{kind: optionHeaders, apply: func(p *requestPlan) {
		p.headers = append(p.headers, Param{Key: key, Value: value})
	}}
}

// WithHeaders sets several request headers. Same override semantics as
// WithHeader.
func WithHeaders(headers map[string]string) RequestOption {
	return RequestOption{kind: optionHeaders, apply: func(p *requestPlan) {
		for k, v := range headers {
			p.headers = append(p.headers, Param{Key: k, Value: v})
		}
	}}
}

// validateOptions checks every supplied option against the method table.
// All options are checked before any is applied, so an invalid call never
// reaches the transport half-built.
func validateOptions(method string, opts []RequestOption) error {
	for _, opt := range opts {
		allowed, ok := optionMethods[opt.kind]
		if !ok {
			return &InvalidOptionError{Option: opt.kind}
		}
		if !slices.Contains(allowed, method) {
			return &InvalidMethodOptionError{Option: opt.kind, Method: method}
		}
	}
	return nil
}

// encodeParams URL-encodes pairs preserving their order. url.Values.Encode
// sorts by key, which would break the wire contract's insertion ordering.
func encodeParams(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
