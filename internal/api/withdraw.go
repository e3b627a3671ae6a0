package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"higestdata/internal/logger"
	"higestdata/internal/provider"
	"higestdata/internal/store"
	"higestdata/internal/utils"
)

type withdrawRequest struct {
	AmountKobo    int64  `json:"amount_kobo" binding:"required,gt=0"`
	BankCode      string `json:"bank_code" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
}

// Withdraw resolves the destination account, reserves the balance and
// asks Korapay to disburse. A rejected disbursal refunds immediately;
// an accepted one stays pending until the transfer webhook settles it.
func (h *Handler) Withdraw(c *gin.Context) {
	sess := claims(c)
	ctx := c.Request.Context()

	var req withdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}

	account, err := h.korapay.ResolveBankAccount(ctx, req.BankCode, req.AccountNumber)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "could not resolve bank account"})
		return
	}

	if err := h.store.DebitForSpend(ctx, sess.Subject, req.AmountKobo); err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "insufficient funds"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to reserve funds"})
		return
	}

	reference := "wd_" + utils.RandomString(12)

	if _, err := h.store.CreateTransaction(ctx, store.Transaction{
		UserID:     sess.Subject,
		Reference:  reference,
		Kind:       store.KindWithdrawal,
		Provider:   h.korapay.Name(),
		AmountKobo: req.AmountKobo,
		Detail:     account.BankCode + ":" + account.AccountNumber,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to record transaction"})
		return
	}

	err = h.korapay.Payout(ctx, provider.PayoutRequest{
		Reference:     reference,
		AmountKobo:    req.AmountKobo,
		BankCode:      account.BankCode,
		AccountNumber: account.AccountNumber,
		Narration:     "wallet withdrawal",
	})
	if err != nil {
		logger.Error("withdrawal rejected", map[string]any{
			"reference": reference,
			"error":     err.Error(),
		})
		_, _ = h.store.RefundSpend(ctx, reference)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "provider unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reference":    reference,
			"account_name": account.AccountName,
			"status":       store.StatusPending,
		},
	})
}
