package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"higestdata/internal/middleware"
	"higestdata/internal/provider"
	"higestdata/internal/session"
	"higestdata/internal/store"
	"higestdata/internal/tasks"
)

// Handler serves the authenticated JSON API. Every route below is
// mounted behind the session middleware; handlers read the subject
// from the request context, never from request parameters.
type Handler struct {
	store    *store.Store
	funding  *provider.Registry
	korapay  *provider.Korapay
	ebills   *provider.Ebills
	runner   *tasks.Runner
	callback string
}

func NewHandler(
	txStore *store.Store,
	funding *provider.Registry,
	korapay *provider.Korapay,
	ebills *provider.Ebills,
	runner *tasks.Runner,
	callbackURL string,
) *Handler {
	return &Handler{
		store:    txStore,
		funding:  funding,
		korapay:  korapay,
		ebills:   ebills,
		runner:   runner,
		callback: callbackURL,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, auth *middleware.AuthMiddleware) {
	api := r.Group("/api")
	api.Use(middleware.GinRequireAuth(auth))

	api.GET("/wallet", h.Wallet)
	api.GET("/transactions", h.Transactions)
	api.POST("/funding", h.InitiateFunding)
	api.POST("/topup/airtime", h.BuyAirtime)
	api.POST("/topup/data", h.BuyData)
	api.POST("/bills/cable", h.PayCableTV)
	api.POST("/bills/electricity", h.PayElectricity)
	api.POST("/withdrawals", h.Withdraw)
	api.POST("/giftcards/sell", h.SellGiftCard)
	api.POST("/crypto/trade", h.TradeCrypto)

	admin := r.Group("/api/admin")
	admin.Use(middleware.GinRequireAdmin(auth))

	admin.GET("/transactions", h.AdminTransactions)
	admin.POST("/transactions/:reference", h.AdminSettle)
}

// claims pulls the authenticated session out of the request context.
// The auth middleware guarantees it is present on these routes.
func claims(c *gin.Context) *session.Claims {
	sess, _ := middleware.ClaimsFromContext(c.Request.Context())
	return sess
}

func (h *Handler) Wallet(c *gin.Context) {
	sess := claims(c)

	user, err := h.store.GetUser(c.Request.Context(), sess.Subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load wallet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"email":        user.Email,
			"role":         user.Role,
			"balance_kobo": user.BalanceKobo,
		},
	})
}

func (h *Handler) Transactions(c *gin.Context) {
	sess := claims(c)

	txs, err := h.store.ListUserTransactions(c.Request.Context(), sess.Subject, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": txs})
}
