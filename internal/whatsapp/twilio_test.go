package whatsapp

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
	"testing"
)

func sign(token, target string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for key := range form {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	payload := target
	for _, key := range keys {
		payload += key + form.Get(key)
	}
	mac := hmac.New(sha1.New, []byte(token))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestSignatureValidator(t *testing.T) {
	validator := NewSignatureValidator("secret-token", "https://cashbook.example.com/")
	if validator.URL() != "https://cashbook.example.com/api/whatsapp" {
		t.Fatalf("unexpected url: %s", validator.URL())
	}
	form := url.Values{
		"Body": {"Personal, income, 5000, Salary"},
		"From": {"whatsapp:+919800000001"},
	}
	signature := sign("secret-token", validator.URL(), form)
	if !validator.Validate(signature, form) {
		t.Fatal("expected valid signature")
	}
	if validator.Validate(sign("other-token", validator.URL(), form), form) {
		t.Fatal("signature from another token must fail")
	}
	tampered := url.Values{"Body": {"Personal, income, 9000, Salary"}, "From": form["From"]}
	if validator.Validate(signature, tampered) {
		t.Fatal("tampered body must fail")
	}
	if validator.Validate("", form) {
		t.Fatal("empty signature must fail")
	}
}

func TestEnvelope(t *testing.T) {
	out := Envelope("Balance < 0 & rising")
	if !strings.Contains(out, "<Response>") || !strings.Contains(out, "<Message>") {
		t.Fatalf("unexpected envelope: %s", out)
	}
	if !strings.Contains(out, "Balance &lt; 0 &amp; rising") {
		t.Fatalf("body not escaped: %s", out)
	}
}
