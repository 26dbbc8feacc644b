// Package auth implements the DN authorization scheme used by the DN REST API.
package auth

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
)

// Scheme is the Authorization scheme prefix.
const Scheme = "DN"

// Credentials identify a caller of the DN API. PublicKey is always sent.
// An empty SecretKey means public-only access: requests carry the public
// key but no signature.
type Credentials struct {
	PublicKey string
	SecretKey Secret
}

// Signer computes Authorization header values for the DN scheme.
type Signer struct {
	creds Credentials
}

// NewSigner creates a signer for the given credentials.
func NewSigner(creds Credentials) *Signer {
	return &Signer{creds: creds}
}

// AuthHeader returns the Authorization header value for one request.
//
// Public-only credentials yield "DN <public_key>". With a secret key the
// value is "DN <public_key>:<signature>", where the signature is the hex
// HMAC-SHA1 of "METHOD\nPATH\nDATE" keyed by the secret (three fields,
// newline-joined, no trailing separator; SHA1 is what the server verifies
// against). The date string is opaque to the signer, but the server
// recomputes the same message, so the caller must send the identical
// string in the x-dn-date header.
func (s *Signer) AuthHeader(method, path, date string) string {
	if s.creds.SecretKey == "" {
		return Scheme + " " + s.creds.PublicKey
	}

	message := method + "\n" + path + "\n" + date

	mac := hmac.New(sha1.New, []byte(s.creds.SecretKey))
	mac.Write([]byte(message))
	signature := hex.EncodeToString(mac.Sum(nil))

	return Scheme + " " + s.creds.PublicKey + ":" + signature
}
