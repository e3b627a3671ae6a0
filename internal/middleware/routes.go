package middleware

import (
	"strings"
)

// Route classification for the page gate. Paths are classified once
// per request, in a fixed priority order, and at most one redirect
// decision is made.

// SignInPath is where unauthenticated requests to protected pages go.
const SignInPath = "/auth/signin"

// RootPath is where denied or already-authenticated requests go.
const RootPath = "/"

// Admin paths are deliberately absent: the admin rule sends every
// non-admin request (session or not) to root, so an outsider never
// sees a sign-in prompt that would reveal the page exists.
var protectedPrefixes = []string{
	"/dashboard",
	"/wallet",
	"/transactions",
	"/topup",
	"/giftcards",
	"/crypto",
	"/withdraw",
	"/settings",
}

var authPaths = []string{
	"/auth/signin",
	"/auth/signup",
}

// skipPrefixes lists paths that never reach the gate: API routes do
// their own authorization, and static assets need none.
var skipPrefixes = []string{
	"/api/",
	"/static/",
	"/assets/",
	"/favicon.ico",
	"/healthz",
}

func isSkipped(path string) bool {
	for _, p := range skipPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func isProtected(path string) bool {
	if path == RootPath {
		return true
	}
	for _, p := range protectedPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

func isAuthRoute(path string) bool {
	for _, p := range authPaths {
		if path == p {
			return true
		}
	}
	return false
}

func isAdminRoute(path string) bool {
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}
