package dnapi

import "strings"

// Format names recognized by the Accept negotiation.
const (
	FormatJSON = "json"
	FormatXML  = "xml"
	FormatRSS  = "rss"
)

// acceptByFormat maps recognized format names to Accept header values.
var acceptByFormat = map[string]string{
	FormatJSON: "application/json",
	FormatXML:  "text/xml,application/xml",
	FormatRSS:  "application/rss+xml",
}

// resolveAccept picks the Accept value for a call: the per-request format
// if recognized, else the client default if recognized, else none.
// Matching is case-insensitive and unrecognized names are not an error.
func resolveAccept(requestFormat, defaultFormat string) (string, bool) {
	if v, ok := acceptByFormat[strings.ToLower(requestFormat)]; ok {
		return v, true
	}
	if v, ok := acceptByFormat[strings.ToLower(defaultFormat)]; ok {
		return v, true
	}
	return "", false
}
