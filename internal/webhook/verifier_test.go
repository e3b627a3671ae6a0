package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestScheme_VerifyWholeBody(t *testing.T) {
	scheme := NewScheme(ProviderPaystack, HeaderPaystack, ScopeBody, "secret-key")
	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1"}}`)

	if !scheme.Verify(body, sign("secret-key", body)) {
		t.Fatal("expected valid signature to verify")
	}
}

func TestScheme_RejectsWrongDigest(t *testing.T) {
	scheme := NewScheme(ProviderPaystack, HeaderPaystack, ScopeBody, "secret-key")

	for _, body := range [][]byte{
		[]byte(`{}`),
		[]byte(`{"event":"charge.success"}`),
		[]byte(`anything at all`),
	} {
		if scheme.Verify(body, "deadbeef") {
			t.Fatalf("signature %q must be rejected for body %s", "deadbeef", body)
		}
	}
}

func TestScheme_RejectsWrongSecret(t *testing.T) {
	scheme := NewScheme(ProviderPaystack, HeaderPaystack, ScopeBody, "secret-key")
	body := []byte(`{"event":"charge.success"}`)

	if scheme.Verify(body, sign("other-key", body)) {
		t.Fatal("signature under a different secret must be rejected")
	}
}

func TestScheme_MissingSecretFailsClosed(t *testing.T) {
	scheme := NewScheme(ProviderPaystack, HeaderPaystack, ScopeBody, "")
	body := []byte(`{"event":"charge.success"}`)

	if scheme.Verify(body, sign("", body)) {
		t.Fatal("a scheme without a secret must never verify")
	}
}

func TestScheme_MissingSignatureFailsClosed(t *testing.T) {
	scheme := NewScheme(ProviderPaystack, HeaderPaystack, ScopeBody, "secret-key")

	if scheme.Verify([]byte(`{}`), "") {
		t.Fatal("an empty signature header must never verify")
	}
}

func TestScheme_DataScopeSignsSubObject(t *testing.T) {
	scheme := NewScheme(ProviderKorapay, HeaderKorapay, ScopeData, "kora-secret")

	data := []byte(`{"status":"success","reference":"abc123"}`)
	body := []byte(`{"event":"transfer.success","data":` + string(data) + `}`)

	if !scheme.Verify(body, sign("kora-secret", data)) {
		t.Fatal("expected data-scope signature to verify")
	}
	if scheme.Verify(body, sign("kora-secret", body)) {
		t.Fatal("whole-body signature must not verify a data-scope scheme")
	}
}

func TestScheme_DataScopeWithoutDataFailsClosed(t *testing.T) {
	scheme := NewScheme(ProviderKorapay, HeaderKorapay, ScopeData, "kora-secret")
	body := []byte(`{"event":"transfer.success"}`)

	if scheme.Verify(body, sign("kora-secret", body)) {
		t.Fatal("payload without a data object must be rejected")
	}
}

func TestParseRequestID(t *testing.T) {
	cases := []struct {
		in        string
		reference string
		subject   string
	}{
		{"airtime_20240901_user-42", "airtime_20240901_user-42", "user-42"},
		{"plainref", "plainref", ""},
		{"", "", ""},
	}

	for _, tc := range cases {
		ref, subject := ParseRequestID(tc.in)
		if ref != tc.reference || subject != tc.subject {
			t.Fatalf("ParseRequestID(%q) = (%q, %q), want (%q, %q)",
				tc.in, ref, subject, tc.reference, tc.subject)
		}
	}
}
