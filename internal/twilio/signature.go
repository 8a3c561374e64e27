package twilio

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // Twilio signs webhooks with HMAC-SHA1.
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
)

// SignatureHeader carries the webhook signature.
const SignatureHeader = "X-Twilio-Signature"

// RequestValidator checks that a webhook was signed with the account's auth token.
type RequestValidator struct {
	authToken []byte
}

// NewRequestValidator creates a validator for authToken.
func NewRequestValidator(authToken string) *RequestValidator {
	return &RequestValidator{authToken: []byte(authToken)}
}

// Signature computes the expected signature for a request to fullURL with the
// given POST parameters: the URL followed by every key and value, sorted by key.
func (v *RequestValidator) Signature(fullURL string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(fullURL)
	for _, k := range keys {
		vals := append([]string(nil), params[k]...)
		sort.Strings(vals)
		for _, val := range vals {
			b.WriteString(k)
			b.WriteString(val)
		}
	}

	mac := hmac.New(sha1.New, v.authToken)
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Validate reports whether signature matches the request.
func (v *RequestValidator) Validate(fullURL string, params url.Values, signature string) bool {
	if signature == "" {
		return false
	}
	expected := v.Signature(fullURL, params)
	return hmac.Equal([]byte(expected), []byte(signature))
}
