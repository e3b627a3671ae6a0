package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"higestdata/internal/store"
)

func (h *Handler) AdminTransactions(c *gin.Context) {
	txs, err := h.store.ListRecentTransactions(c.Request.Context(), 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": txs})
}

type settleRequest struct {
	Status string `json:"status" binding:"required,oneof=success failed"`
}

// AdminSettle resolves a pending transaction by hand. Approving a gift
// card or crypto sale credits the seller; failing a wallet-debited
// transaction refunds it. The store guards make a repeated settle a
// no-op, so a double-click in the admin panel reports 409 instead of
// moving money twice.
func (h *Handler) AdminSettle(c *gin.Context) {
	reference := c.Param("reference")

	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}

	tx, err := h.store.GetTransactionByReference(c.Request.Context(), reference)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "unknown transaction"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load transaction"})
		return
	}

	applied, err := h.settle(c, tx, req.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to settle transaction"})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "transaction already settled"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reference": tx.Reference,
			"status":    req.Status,
		},
	})
}

func (h *Handler) settle(c *gin.Context, tx *store.Transaction, status string) (bool, error) {
	ctx := c.Request.Context()

	creditSide := tx.Kind == store.KindGiftCard || tx.Kind == store.KindCrypto

	if status == store.StatusSuccess && creditSide {
		return h.store.SettleTradeSuccess(ctx, tx.Reference)
	}
	if status == store.StatusFailed && !creditSide && tx.Kind != store.KindFunding {
		// The wallet was debited up front, so a failure returns the money.
		return h.store.RefundSpend(ctx, tx.Reference)
	}
	return h.store.MarkTransactionStatus(ctx, tx.Reference, status)
}
