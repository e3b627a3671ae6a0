package session

import (
	"time"

	"github.com/go-jose/go-jose/v3/jwt"
)

// Claims is the decoded content of a session token. It intentionally
// carries identity pointers only, no auth state.
type Claims struct {
	Subject   string    // references users.id
	Email     string    // email at sign-in time
	Role      string    // "user" or "admin"
	ExpiresAt time.Time // absolute expiry
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsAdmin reports whether the session belongs to an admin subject.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

// DecodeReason classifies the outcome of decoding a token. Callers at
// the HTTP boundary treat everything except DecodeValid as "not logged
// in"; the distinction exists for diagnostics only.
type DecodeReason int

const (
	DecodeValid DecodeReason = iota
	DecodeMalformed
	DecodeBadSignature
	DecodeExpired
)

func (r DecodeReason) String() string {
	switch r {
	case DecodeValid:
		return "valid"
	case DecodeMalformed:
		return "malformed"
	case DecodeBadSignature:
		return "bad_signature"
	case DecodeExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// tokenClaims is the wire form of a session token. The expiry is
// carried twice: once as the registered exp claim (validated by the
// JWT library) and once as a plain expiresAt field that non-JWT-aware
// consumers can read.
type tokenClaims struct {
	jwt.Claims
	Email     string `json:"email"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expiresAt"`
}
