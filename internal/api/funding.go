package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"higestdata/internal/logger"
	"higestdata/internal/provider"
	"higestdata/internal/store"
	"higestdata/internal/tasks"
	"higestdata/internal/utils"
)

type fundingRequest struct {
	Provider   string `json:"provider" binding:"required"`
	AmountKobo int64  `json:"amount_kobo" binding:"required,gt=0"`
}

// InitiateFunding creates a pending funding transaction and asks the
// chosen provider for a checkout link. Settlement happens later, via
// the provider webhook.
func (h *Handler) InitiateFunding(c *gin.Context) {
	sess := claims(c)

	var req fundingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}

	client, err := h.funding.Get(req.Provider)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown funding provider"})
		return
	}

	reference := "fund_" + utils.RandomString(12)

	if _, err := h.store.CreateTransaction(c.Request.Context(), store.Transaction{
		UserID:     sess.Subject,
		Reference:  reference,
		Kind:       store.KindFunding,
		Provider:   client.Name(),
		AmountKobo: req.AmountKobo,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to record transaction"})
		return
	}

	intent, err := client.InitializeFunding(c.Request.Context(), provider.FundingRequest{
		Reference:   reference,
		Email:       sess.Email,
		AmountKobo:  req.AmountKobo,
		CallbackURL: h.callback,
	})
	if err != nil {
		logger.Error("funding initialization failed", map[string]any{
			"provider":  client.Name(),
			"reference": reference,
			"error":     err.Error(),
		})
		_, _ = h.store.MarkTransactionStatus(c.Request.Context(), reference, store.StatusFailed)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "provider unavailable"})
		return
	}

	// Detached re-check a few seconds later. Its outcome is only ever
	// logged; the webhook remains the settlement path.
	h.runner.Submit(tasks.Task{
		Name:  "funding-recheck",
		Delay: 5 * time.Second,
		Run: func(ctx context.Context) error {
			status, err := client.VerifyFunding(ctx, reference)
			if err != nil {
				return err
			}
			logger.Info("funding re-check", map[string]any{
				"provider":  client.Name(),
				"reference": reference,
				"status":    status.Status,
			})
			return nil
		},
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reference":    intent.Reference,
			"checkout_url": intent.CheckoutURL,
		},
	})
}
