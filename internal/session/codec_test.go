package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec(testSecret)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return codec
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Encode(Claims{
		Subject: "user-1",
		Email:   "ada@example.com",
		Role:    RoleUser,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	claims, reason := codec.Decode(token)
	if reason != DecodeValid {
		t.Fatalf("expected valid decode, got %s", reason)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("subject = %q", claims.Subject)
	}
	if claims.Email != "ada@example.com" {
		t.Fatalf("email = %q", claims.Email)
	}
	if claims.Role != RoleUser {
		t.Fatalf("role = %q", claims.Role)
	}
}

func TestCodec_RejectsShortSecret(t *testing.T) {
	if _, err := NewCodec("too-short"); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestCodec_ExpiredTokenDecodesToNil(t *testing.T) {
	codec := newTestCodec(t)

	issued := time.Now().Add(-2 * time.Hour)
	codec.now = func() time.Time { return issued }

	token, err := codec.Encode(Claims{Subject: "user-1", Role: RoleUser})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	codec.now = time.Now

	claims, reason := codec.Decode(token)
	if claims != nil {
		t.Fatal("expected nil claims for expired token")
	}
	if reason != DecodeExpired {
		t.Fatalf("expected expired, got %s", reason)
	}
}

func TestCodec_TokenValidJustBeforeExpiry(t *testing.T) {
	codec := newTestCodec(t)

	issued := time.Now()
	codec.now = func() time.Time { return issued }

	token, err := codec.Encode(Claims{Subject: "user-1", Role: RoleUser})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	codec.now = func() time.Time { return issued.Add(TTL - time.Minute) }

	if _, reason := codec.Decode(token); reason != DecodeValid {
		t.Fatalf("expected valid just before expiry, got %s", reason)
	}
}

func TestCodec_TamperedTokenDecodesToNil(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Encode(Claims{Subject: "user-1", Role: RoleUser})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d segments", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	claims, reason := codec.Decode(tampered)
	if claims != nil {
		t.Fatal("expected nil claims for tampered token")
	}
	if reason != DecodeBadSignature {
		t.Fatalf("expected bad_signature, got %s", reason)
	}
}

func TestCodec_WrongKeyDecodesToNil(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewCodec("ffffffffffffffffffffffffffffffff")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	token, err := other.Encode(Claims{Subject: "user-1", Role: RoleUser})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if claims, reason := codec.Decode(token); claims != nil || reason == DecodeValid {
		t.Fatalf("expected rejection of token signed under another key, got %s", reason)
	}
}

func TestCodec_GarbageDecodesToMalformed(t *testing.T) {
	codec := newTestCodec(t)

	for _, token := range []string{"", "not-a-jwt", "a.b", "a.b.c.d"} {
		if claims, reason := codec.Decode(token); claims != nil || reason != DecodeMalformed {
			t.Fatalf("token %q: expected malformed, got %s", token, reason)
		}
	}
}

func TestManager_CreateThenFromRequest(t *testing.T) {
	codec := newTestCodec(t)
	mgr := NewManager(codec, CookieOptions{Secure: true, SameSite: http.SameSiteLaxMode})

	rec := httptest.NewRecorder()
	if err := mgr.Create(rec, "user-1", "ada@example.com", RoleAdmin); err != nil {
		t.Fatalf("create: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != CookieName {
		t.Fatalf("cookie name = %q", cookie.Name)
	}
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be HTTP-only")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	claims := mgr.FromRequest(req)
	if claims == nil {
		t.Fatal("expected claims from fresh session")
	}
	if claims.Subject != "user-1" || claims.Email != "ada@example.com" || claims.Role != RoleAdmin {
		t.Fatalf("claims round-trip mismatch: %+v", claims)
	}
}

func TestManager_FromRequestWithoutCookie(t *testing.T) {
	codec := newTestCodec(t)
	mgr := NewManager(codec, CookieOptions{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if claims := mgr.FromRequest(req); claims != nil {
		t.Fatal("expected nil claims without cookie")
	}
}

func TestManager_ClearExpiresCookie(t *testing.T) {
	codec := newTestCodec(t)
	mgr := NewManager(codec, CookieOptions{})

	rec := httptest.NewRecorder()
	mgr.Clear(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	if cookies[0].MaxAge >= 0 {
		t.Fatalf("expected negative MaxAge, got %d", cookies[0].MaxAge)
	}
}
