package handler

import (
	"net/http"

	"higestdata/internal/auth/credentials"
	"higestdata/internal/auth/provider"
	"higestdata/internal/auth/resolver"
	"higestdata/internal/logger"
	"higestdata/internal/session"
	"higestdata/internal/store"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	providers   *provider.Registry
	sessions    *session.Manager
	credentials *credentials.Service
	resolver    resolver.Resolver
	users       *store.Store
}

func NewHandler(
	registry *provider.Registry,
	sessions *session.Manager,
	credentialService *credentials.Service,
	identityResolver resolver.Resolver,
	users *store.Store,
) *Handler {
	return &Handler{
		providers:   registry,
		sessions:    sessions,
		credentials: credentialService,
		resolver:    identityResolver,
		users:       users,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/auth/signup", h.Register)
	r.POST("/api/auth/signin", h.Login)
	r.POST("/api/auth/logout", h.Logout)

	r.GET("/oauth/login/:provider", h.oauthLogin)
	r.GET("/oauth/callback/:provider", h.oauthCallback)
}

func (h *Handler) oauthLogin(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	state := generateState(c)
	_, codeChallenge := generatePKCE(c)

	authURL := p.AuthCodeURL(state, codeChallenge)
	c.Redirect(http.StatusFound, authURL)
}

func (h *Handler) oauthCallback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "invalid state",
		})
		return
	}

	// CASE 1: OAuth error. Registration is not authentication; send
	// the user back to a fresh sign-in.
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oidc callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		c.Redirect(http.StatusFound, "/auth/signin")
		return
	}

	// CASE 2: Normal OAuth callback
	code := c.Query("code")
	if code == "" {
		logger.Error("oidc callback missing code and error", nil)
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "missing pkce verifier",
		})
		return
	}

	identity, err := p.ExchangeCode(
		c.Request.Context(),
		code,
		codeVerifier,
	)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "authentication failed",
		})
		return
	}

	userID, err := h.resolver.Resolve(c.Request.Context(), identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to resolve user",
		})
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to load user",
		})
		return
	}

	if err := h.sessions.Create(c.Writer, user.ID, user.Email, user.Role); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to create session",
		})
		return
	}

	logger.Info("oauth sign-in", map[string]any{
		"provider": providerName,
		"user_id":  user.ID,
	})

	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	// Stateless sessions: clearing the cookie is the whole logout.
	h.sessions.Clear(c.Writer)
	c.Status(http.StatusNoContent)
}
