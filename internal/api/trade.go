package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"higestdata/internal/store"
	"higestdata/internal/utils"
)

// Gift card and crypto sales are credit-side trades: the user hands
// over the asset, an admin reviews the submission and settles it,
// which is when the wallet is credited. Nothing moves on submission.

type giftCardRequest struct {
	CardType   string `json:"card_type" binding:"required"`
	Country    string `json:"country" binding:"required"`
	CardCode   string `json:"card_code" binding:"required"`
	AmountKobo int64  `json:"amount_kobo" binding:"required,gt=0"`
}

func (h *Handler) SellGiftCard(c *gin.Context) {
	sess := claims(c)

	var req giftCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}

	reference := "gc_" + utils.RandomString(12)

	if _, err := h.store.CreateTransaction(c.Request.Context(), store.Transaction{
		UserID:     sess.Subject,
		Reference:  reference,
		Kind:       store.KindGiftCard,
		Provider:   "manual",
		AmountKobo: req.AmountKobo,
		Detail:     req.CardType + "/" + req.Country + ":" + req.CardCode,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to record transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reference": reference,
			"status":    store.StatusPending,
		},
	})
}

type cryptoRequest struct {
	Asset      string `json:"asset" binding:"required"`
	Network    string `json:"network" binding:"required"`
	TxHash     string `json:"tx_hash" binding:"required"`
	AmountKobo int64  `json:"amount_kobo" binding:"required,gt=0"`
}

func (h *Handler) TradeCrypto(c *gin.Context) {
	sess := claims(c)

	var req cryptoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}

	reference := "cr_" + utils.RandomString(12)

	if _, err := h.store.CreateTransaction(c.Request.Context(), store.Transaction{
		UserID:     sess.Subject,
		Reference:  reference,
		Kind:       store.KindCrypto,
		Provider:   "manual",
		AmountKobo: req.AmountKobo,
		Detail:     req.Asset + "/" + req.Network + ":" + req.TxHash,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to record transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reference": reference,
			"status":    store.StatusPending,
		},
	})
}
