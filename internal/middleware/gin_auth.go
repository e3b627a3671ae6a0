package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinRequireAuth adapts the net/http AuthMiddleware to Gin for the
// JSON API groups. Auth decisions stay session-based and provider-
// agnostic.
func GinRequireAuth(auth *AuthMiddleware) gin.HandlerFunc {
	return ginWrap(auth.RequireAuth)
}

// GinRequireAdmin is GinRequireAuth plus the admin role check.
func GinRequireAdmin(auth *AuthMiddleware) gin.HandlerFunc {
	return ginWrap(auth.RequireAdmin)
}

func ginWrap(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		mw(next).ServeHTTP(c.Writer, c.Request)

		// If the middleware already wrote a response, stop the chain
		if c.Writer.Written() {
			c.Abort()
		}
	}
}
