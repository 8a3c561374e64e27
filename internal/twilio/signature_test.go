package twilio_test

import (
	"net/url"
	"testing"

	"github.com/kasimali67/ai-call-agent/internal/twilio"
	"github.com/stretchr/testify/assert"
)

// Reference values from Twilio's webhook security documentation.
const (
	docToken     = "12345"
	docURL       = "https://mycompany.com/myapp.php?foo=1&bar=2"
	docSignature = "0/KCTR6DLpKmkAf8muzZqo1nDgQ="
)

func docParams() url.Values {
	return url.Values{
		"CallSid": {"CA1234567890ABCDE"},
		"Caller":  {"+12349013030"},
		"Digits":  {"1234"},
		"From":    {"+12349013030"},
		"To":      {"+18005551212"},
	}
}

func TestRequestValidator_KnownSignature(t *testing.T) {
	v := twilio.NewRequestValidator(docToken)
	assert.Equal(t, docSignature, v.Signature(docURL, docParams()))
	assert.True(t, v.Validate(docURL, docParams(), docSignature))
}

func TestRequestValidator_Rejects(t *testing.T) {
	v := twilio.NewRequestValidator(docToken)

	tampered := docParams()
	tampered.Set("Digits", "9999")

	assert.False(t, v.Validate(docURL, tampered, docSignature))
	assert.False(t, v.Validate("https://evil.example.com/myapp.php?foo=1&bar=2", docParams(), docSignature))
	assert.False(t, v.Validate(docURL, docParams(), ""))
	assert.False(t, twilio.NewRequestValidator("other").Validate(docURL, docParams(), docSignature))
}
