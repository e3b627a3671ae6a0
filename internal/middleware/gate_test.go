package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"higestdata/internal/session"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestSessions(t *testing.T) *session.Manager {
	t.Helper()
	codec, err := session.NewCodec(testSecret)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return session.NewManager(codec, session.CookieOptions{})
}

func sessionCookie(t *testing.T, mgr *session.Manager, role string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := mgr.Create(rec, "user-1", "ada@example.com", role); err != nil {
		t.Fatalf("create session: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	return cookies[0]
}

func newGatedRouter(mgr *session.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Gate(mgr))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	router.GET("/", ok)
	router.GET("/dashboard", ok)
	router.GET("/auth/signin", ok)
	router.GET("/auth/signup", ok)
	router.GET("/admin/transactions", ok)
	router.GET("/api/public", ok)
	router.GET("/about", ok)
	return router
}

func serve(router *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGate_ProtectedWithoutSessionRedirectsToSignIn(t *testing.T) {
	mgr := newTestSessions(t)
	router := newGatedRouter(mgr)

	for _, path := range []string{"/", "/dashboard"} {
		rec := serve(router, path, nil)
		if rec.Code != http.StatusFound {
			t.Fatalf("%s: expected 302, got %d", path, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != SignInPath {
			t.Fatalf("%s: expected redirect to %s, got %s", path, SignInPath, loc)
		}
	}
}

func TestGate_ProtectedWithSessionPassesThrough(t *testing.T) {
	mgr := newTestSessions(t)
	router := newGatedRouter(mgr)
	cookie := sessionCookie(t, mgr, session.RoleUser)

	for _, path := range []string{"/", "/dashboard"} {
		rec := serve(router, path, cookie)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestGate_AuthRouteWithSessionRedirectsToRoot(t *testing.T) {
	mgr := newTestSessions(t)
	router := newGatedRouter(mgr)
	cookie := sessionCookie(t, mgr, session.RoleUser)

	for _, path := range []string{"/auth/signin", "/auth/signup"} {
		rec := serve(router, path, cookie)
		if rec.Code != http.StatusFound {
			t.Fatalf("%s: expected 302, got %d", path, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != RootPath {
			t.Fatalf("%s: expected redirect to %s, got %s", path, RootPath, loc)
		}
	}
}

func TestGate_AuthRouteWithoutSessionPassesThrough(t *testing.T) {
	mgr := newTestSessions(t)
	router := newGatedRouter(mgr)

	rec := serve(router, "/auth/signin", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

// Admin pages must look absent to outsiders: with no session at all,
// the redirect goes to root, exactly as it does for a non-admin
// session, never to the sign-in page.
func TestGate_AdminRouteWithoutSessionRedirectsToRoot(t *testing.T) {
	mgr := newTestSessions(t)
	router := newGatedRouter(mgr)

	rec := serve(router, "/admin/transactions", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != RootPath {
		t.Fatalf("expected redirect to %s, got %s", RootPath, loc)
	}
}

func TestGate_AdminRouteWithUserRoleRedirectsToRoot(t *testing.T) {
	mgr := newTestSessions(t)
	router := newGatedRouter(mgr)
	cookie := sessionCookie(t, mgr, session.RoleUser)

	rec := serve(router, "/admin/transactions", cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != RootPath {
		t.Fatalf("expected redirect to %s, got %s", RootPath, loc)
	}
}

func TestGate_AdminRouteWithAdminRolePassesThrough(t *testing.T) {
	mgr := newTestSessions(t)
	router := newGatedRouter(mgr)
	cookie := sessionCookie(t, mgr, session.RoleAdmin)

	rec := serve(router, "/admin/transactions", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGate_SkippedPathsBypassTheGate(t *testing.T) {
	mgr := newTestSessions(t)
	router := newGatedRouter(mgr)

	rec := serve(router, "/api/public", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for skipped path, got %d", rec.Code)
	}
}

func TestGate_UnclassifiedPathPassesThrough(t *testing.T) {
	mgr := newTestSessions(t)
	router := newGatedRouter(mgr)

	rec := serve(router, "/about", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for unclassified path, got %d", rec.Code)
	}
}

func TestGate_TamperedCookieTreatedAsNoSession(t *testing.T) {
	mgr := newTestSessions(t)
	router := newGatedRouter(mgr)

	rec := serve(router, "/dashboard", &http.Cookie{
		Name:  session.CookieName,
		Value: "not-a-valid-token",
	})
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != SignInPath {
		t.Fatalf("expected redirect to %s, got %s", SignInPath, loc)
	}
}

func TestRequireAuth_WithoutSessionAnswers401(t *testing.T) {
	mgr := newTestSessions(t)
	auth := NewAuthMiddleware(mgr)

	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/wallet", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_AttachesClaims(t *testing.T) {
	mgr := newTestSessions(t)
	auth := NewAuthMiddleware(mgr)
	cookie := sessionCookie(t, mgr, session.RoleUser)

	var got *session.Claims
	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/wallet", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got == nil || got.Subject != "user-1" {
		t.Fatalf("claims not attached: %+v", got)
	}
}

func TestRequireAdmin_UserRoleAnswers403(t *testing.T) {
	mgr := newTestSessions(t)
	auth := NewAuthMiddleware(mgr)
	cookie := sessionCookie(t, mgr, session.RoleUser)

	handler := auth.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/transactions", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
