package session

import (
	"net/http"

	"higestdata/internal/logger"
)

// Manager binds the codec to the session cookie. It is the only place
// that reads or writes the cookie.
type Manager struct {
	codec  *Codec
	cookie CookieOptions
}

func NewManager(codec *Codec, opts CookieOptions) *Manager {
	return &Manager{
		codec:  codec,
		cookie: opts.normalize(),
	}
}

// Create signs a token for the subject and issues the session cookie.
// A signing failure propagates; a session is never partially created.
func (m *Manager) Create(
	w http.ResponseWriter,
	subject string,
	email string,
	role string,
) error {
	if role == "" {
		role = RoleUser
	}

	token, err := m.codec.Encode(Claims{
		Subject: subject,
		Email:   email,
		Role:    role,
	})
	if err != nil {
		return err
	}

	SetCookie(w, token, m.codec.now().Add(TTL), m.cookie)
	return nil
}

// FromRequest reads the session cookie and decodes it. Nil means "not
// logged in", whether the cookie is absent, expired, or tampered with.
func (m *Manager) FromRequest(r *http.Request) *Claims {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	claims, reason := m.codec.Decode(cookie.Value)
	if reason != DecodeValid {
		logger.Debug("session decode failed", map[string]any{
			"reason": reason.String(),
		})
		return nil
	}

	return claims
}

// Clear removes the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	ClearCookie(w, m.cookie)
}
