package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"higestdata/internal/session"
)

// Gate is the page-route authorization middleware. It runs before any
// page handler and makes at most one redirect decision per request,
// evaluated in fixed priority order:
//
//  1. protected route without a session  -> sign-in
//  2. auth route with a session          -> root
//  3. admin route without the admin role -> root
//  4. otherwise pass through
//
// The admin denial redirects to root rather than answering 403, so an
// outsider cannot tell an admin page apart from a missing one.
func Gate(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if isSkipped(path) {
			c.Next()
			return
		}

		claims := sessions.FromRequest(c.Request)

		switch {
		case isProtected(path) && claims == nil:
			c.Redirect(http.StatusFound, SignInPath)
			c.Abort()

		case isAuthRoute(path) && claims != nil:
			c.Redirect(http.StatusFound, RootPath)
			c.Abort()

		case isAdminRoute(path) && !claims.IsAdmin():
			c.Redirect(http.StatusFound, RootPath)
			c.Abort()

		default:
			c.Next()
		}
	}
}
