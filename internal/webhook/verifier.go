package webhook

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Provider tags for inbound callbacks.
const (
	ProviderPaystack    = "paystack"
	ProviderKorapay     = "korapay"
	ProviderFlutterwave = "flutterwave"
	ProviderEbills      = "ebills"
)

// Scope selects which part of the request body a provider signs.
type Scope int

const (
	// ScopeBody signs the whole raw body.
	ScopeBody Scope = iota
	// ScopeData signs only the serialized "data" sub-object.
	ScopeData
)

// Scheme is one provider's signature scheme: which header carries the
// digest, what gets signed, and under which secret. A scheme with no
// secret fails closed.
type Scheme struct {
	Provider string
	Header   string
	Scope    Scope

	secret []byte
}

func NewScheme(provider, header string, scope Scope, secret string) Scheme {
	return Scheme{
		Provider: provider,
		Header:   header,
		Scope:    scope,
		secret:   []byte(secret),
	}
}

// Verify recomputes the HMAC-SHA256 digest of the signed payload and
// compares it to the supplied header value in constant time.
func (s Scheme) Verify(rawBody []byte, signature string) bool {
	if len(s.secret) == 0 || signature == "" {
		return false
	}

	payload := rawBody
	if s.Scope == ScopeData {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(rawBody, &envelope); err != nil || envelope.Data == nil {
			return false
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, envelope.Data); err != nil {
			return false
		}
		payload = compact.Bytes()
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// Schemes is the per-provider scheme table, selected by provider tag.
type Schemes map[string]Scheme

// Signature headers differ across providers.
const (
	HeaderPaystack    = "x-signature"
	HeaderKorapay     = "x-korapay-signature"
	HeaderFlutterwave = "verif-hash"
	HeaderEbills      = "x-signature"
)

// NewSchemes builds the scheme table from the injected secrets.
// Korapay signs the data sub-object; everyone else signs the body.
func NewSchemes(paystack, korapay, flutterwave, ebills string) Schemes {
	return Schemes{
		ProviderPaystack:    NewScheme(ProviderPaystack, HeaderPaystack, ScopeBody, paystack),
		ProviderKorapay:     NewScheme(ProviderKorapay, HeaderKorapay, ScopeData, korapay),
		ProviderFlutterwave: NewScheme(ProviderFlutterwave, HeaderFlutterwave, ScopeBody, flutterwave),
		ProviderEbills:      NewScheme(ProviderEbills, HeaderEbills, ScopeBody, ebills),
	}
}
