package middleware

import (
	"context"
	"net/http"

	"higestdata/internal/session"
)

// unexported, collision-proof context key
type claimsContextKeyType struct{}

var claimsKey = claimsContextKeyType{}

// ClaimsFromContext extracts the authenticated session claims from context.
func ClaimsFromContext(ctx context.Context) (*session.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*session.Claims)
	return claims, ok
}

// AuthMiddleware guards JSON API routes. Page routes use Gate instead;
// the two surfaces fail differently (401 JSON vs redirect).
type AuthMiddleware struct {
	Sessions *session.Manager
}

func NewAuthMiddleware(sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{Sessions: sessions}
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Decode session cookie; absence and invalidity are the same
		claims := a.Sessions.FromRequest(r)
		if claims == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// 2. Attach claims to context
		ctx := context.WithValue(r.Context(), claimsKey, claims)

		// 3. Continue request
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin additionally checks the session role. API admin routes
// answer 403, unlike the page gate which redirects.
func (a *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		if !claims.IsAdmin() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
