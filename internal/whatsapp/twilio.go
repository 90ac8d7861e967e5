package whatsapp

import (
	"bytes"
	"encoding/xml"
	"net/url"
	"strings"

	"github.com/twilio/twilio-go/client"
	"github.com/twilio/twilio-go/twiml"
)

const (
	WebhookPath     = "/api/whatsapp"
	SignatureHeader = "X-Twilio-Signature"
	ContentType     = "text/xml; charset=utf-8"
)

// Envelope wraps a reply in a TwiML messaging response.
func Envelope(message string) string {
	out, err := twiml.Messages([]twiml.Element{&twiml.MessagingMessage{Body: message}})
	if err == nil {
		return out
	}
	var escaped bytes.Buffer
	_ = xml.EscapeText(&escaped, []byte(message))
	return xml.Header + "<Response><Message>" + escaped.String() + "</Message></Response>"
}

// SignatureValidator checks Twilio request signatures against the webhook's
// public URL.
type SignatureValidator struct {
	url       string
	validator client.RequestValidator
}

func NewSignatureValidator(authToken, publicURL string) *SignatureValidator {
	return &SignatureValidator{
		url:       strings.TrimRight(publicURL, "/") + WebhookPath,
		validator: client.NewRequestValidator(authToken),
	}
}

func (v *SignatureValidator) URL() string {
	return v.url
}

func (v *SignatureValidator) Validate(signature string, form url.Values) bool {
	params := make(map[string]string, len(form))
	for key := range form {
		params[key] = form.Get(key)
	}
	return v.validator.Validate(v.url, params, signature)
}
