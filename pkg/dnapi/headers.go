package dnapi

// Header names and fixed values of the DN wire contract.
const (
	headerAccept         = "Accept"
	headerAcceptEncoding = "Accept-Encoding"
	headerAuthorization  = "Authorization"
	headerCacheControl   = "Cache-Control"
	headerContentType    = "Content-Type"

	// HeaderDate carries the date string the Authorization signature was
	// computed over. The server recomputes the signature from it, so the
	// two must always agree.
	HeaderDate = "x-dn-date"

	acceptEncodingValue = "gzip,deflate"
	cacheControlNoCache = "no-cache"
	contentTypeForm     = "application/x-www-form-urlencoded"
)
