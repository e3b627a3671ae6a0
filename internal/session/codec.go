package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
)

// TTL is the absolute session lifetime. There is no server-side
// session store, so a token cannot be revoked before it expires.
const TTL = time.Hour

// Codec signs and verifies session tokens as HS256 JWTs under a single
// process-wide secret injected at startup.
type Codec struct {
	secret []byte
	signer jose.Signer
	now    func() time.Time
}

// NewCodec builds a codec from the configured session secret.
func NewCodec(secret string) (*Codec, error) {
	if len(secret) < 32 {
		return nil, errors.New("session: secret must be at least 32 bytes")
	}

	key := []byte(secret)

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: key},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("session: failed to build signer: %w", err)
	}

	return &Codec{
		secret: key,
		signer: signer,
		now:    time.Now,
	}, nil
}

// Encode signs the claims into a compact token expiring TTL from now.
// The caller-supplied ExpiresAt is ignored; expiry is fixed at signing
// time.
func (c *Codec) Encode(claims Claims) (string, error) {
	now := c.now()
	expiry := now.Add(TTL)

	tc := tokenClaims{
		Claims: jwt.Claims{
			Subject:  claims.Subject,
			IssuedAt: jwt.NewNumericDate(now),
			Expiry:   jwt.NewNumericDate(expiry),
		},
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: expiry.Unix(),
	}

	token, err := jwt.Signed(c.signer).Claims(tc).CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("session: failed to sign token: %w", err)
	}

	return token, nil
}

// Decode verifies a token and returns its claims. Any failure returns
// nil claims with a reason; callers must not distinguish reasons when
// deciding whether a request is authenticated.
func (c *Codec) Decode(token string) (*Claims, DecodeReason) {
	parsed, err := jwt.ParseSigned(token)
	if err != nil {
		return nil, DecodeMalformed
	}

	// Reject anything not signed with the expected algorithm.
	if len(parsed.Headers) != 1 || parsed.Headers[0].Algorithm != string(jose.HS256) {
		return nil, DecodeBadSignature
	}

	var tc tokenClaims
	if err := parsed.Claims(c.secret, &tc); err != nil {
		return nil, DecodeBadSignature
	}

	if err := tc.Validate(jwt.Expected{Time: c.now()}); err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return nil, DecodeExpired
		}
		return nil, DecodeMalformed
	}

	if tc.Subject == "" {
		return nil, DecodeMalformed
	}

	role := tc.Role
	if role == "" {
		role = RoleUser
	}

	return &Claims{
		Subject:   tc.Subject,
		Email:     tc.Email,
		Role:      role,
		ExpiresAt: tc.Expiry.Time(),
	}, DecodeValid
}
