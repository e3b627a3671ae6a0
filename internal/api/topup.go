package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"higestdata/internal/logger"
	"higestdata/internal/provider"
	"higestdata/internal/store"
	"higestdata/internal/tasks"
	"higestdata/internal/utils"
)

// Aggregator wallet floor in naira. Orders below this leave top-ups at
// risk of failing upstream, so the balance check flags it.
const lowAggregatorBalance = 10000.0

// placeOrder is the shared wallet-funded VTU flow: reserve balance,
// record the transaction, place the order. A rejected order refunds
// the reservation immediately; an accepted order stays pending until
// the aggregator webhook settles it.
func (h *Handler) placeOrder(
	c *gin.Context,
	kind string,
	amountKobo int64,
	place func(ctx context.Context, requestID string) (*provider.OrderReceipt, error),
) {
	sess := claims(c)
	ctx := c.Request.Context()

	// Request ids end with the subject id so webhook processing can
	// recover the owner from the identifier alone.
	requestID := kind + "_" + utils.RandomString(10) + "_" + sess.Subject

	if err := h.store.DebitForSpend(ctx, sess.Subject, amountKobo); err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "insufficient funds"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to reserve funds"})
		return
	}

	if _, err := h.store.CreateTransaction(ctx, store.Transaction{
		UserID:     sess.Subject,
		Reference:  requestID,
		Kind:       kind,
		Provider:   h.ebills.Name(),
		AmountKobo: amountKobo,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to record transaction"})
		return
	}

	receipt, err := place(ctx, requestID)
	if err != nil {
		logger.Error("vtu order rejected", map[string]any{
			"kind":      kind,
			"reference": requestID,
			"error":     err.Error(),
		})
		_, _ = h.store.RefundSpend(ctx, requestID)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "provider unavailable"})
		return
	}

	// Detached balance check: every order draws down the aggregator
	// wallet, so flag it before it runs dry. Outcome is only logged.
	h.runner.Submit(tasks.Task{
		Name: "ebills-balance-check",
		Run: func(ctx context.Context) error {
			balance, err := h.ebills.WalletBalance(ctx)
			if err != nil {
				return err
			}
			if balance < lowAggregatorBalance {
				logger.Warn("aggregator balance low", map[string]any{
					"balance": balance,
				})
			}
			return nil
		},
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reference": requestID,
			"order_id":  receipt.OrderID,
			"status":    store.StatusPending,
		},
	})
}

type airtimeRequest struct {
	Network    string `json:"network" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	AmountKobo int64  `json:"amount_kobo" binding:"required,gt=0"`
}

func (h *Handler) BuyAirtime(c *gin.Context) {
	var req airtimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}

	h.placeOrder(c, store.KindAirtime, req.AmountKobo, func(ctx context.Context, requestID string) (*provider.OrderReceipt, error) {
		return h.ebills.BuyAirtime(ctx, requestID, req.Network, req.Phone, req.AmountKobo)
	})
}

type dataRequest struct {
	Network     string `json:"network" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	VariationID string `json:"variation_id" binding:"required"`
	AmountKobo  int64  `json:"amount_kobo" binding:"required,gt=0"`
}

func (h *Handler) BuyData(c *gin.Context) {
	var req dataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}

	h.placeOrder(c, store.KindData, req.AmountKobo, func(ctx context.Context, requestID string) (*provider.OrderReceipt, error) {
		return h.ebills.BuyData(ctx, requestID, req.Network, req.Phone, req.VariationID)
	})
}

type cableRequest struct {
	ServiceID   string `json:"service_id" binding:"required"`
	CustomerID  string `json:"customer_id" binding:"required"`
	VariationID string `json:"variation_id" binding:"required"`
	AmountKobo  int64  `json:"amount_kobo" binding:"required,gt=0"`
}

func (h *Handler) PayCableTV(c *gin.Context) {
	var req cableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}

	h.placeOrder(c, store.KindCableTV, req.AmountKobo, func(ctx context.Context, requestID string) (*provider.OrderReceipt, error) {
		return h.ebills.PayCableTV(ctx, requestID, req.ServiceID, req.CustomerID, req.VariationID)
	})
}

type electricityRequest struct {
	ServiceID   string `json:"service_id" binding:"required"`
	MeterNumber string `json:"meter_number" binding:"required"`
	MeterType   string `json:"meter_type" binding:"required"`
	AmountKobo  int64  `json:"amount_kobo" binding:"required,gt=0"`
}

func (h *Handler) PayElectricity(c *gin.Context) {
	var req electricityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}

	h.placeOrder(c, store.KindElectricity, req.AmountKobo, func(ctx context.Context, requestID string) (*provider.OrderReceipt, error) {
		return h.ebills.PayElectricity(ctx, requestID, req.ServiceID, req.MeterNumber, req.MeterType, req.AmountKobo)
	})
}
