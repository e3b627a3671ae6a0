package webhook

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"higestdata/internal/logger"
)

// Handler terminates the provider callback endpoints: read the raw
// body, verify the signature, normalize the payload into an Event,
// dispatch. Response contract: 400 for a missing/invalid signature or
// malformed payload, 200 for processed or recognized-and-ignored,
// 500 for an internal failure (which makes the provider retry).
type Handler struct {
	schemes    Schemes
	dispatcher *Dispatcher
}

func NewHandler(schemes Schemes, dispatcher *Dispatcher) *Handler {
	return &Handler{
		schemes:    schemes,
		dispatcher: dispatcher,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	hooks := r.Group("/api/webhooks")
	hooks.POST("/paystack", h.paystack)
	hooks.POST("/korapay", h.korapay)
	hooks.POST("/flutterwave", h.flutterwave)
	hooks.POST("/ebills", h.ebills)
}

// verifiedBody reads the raw body and checks the provider signature.
// On failure it writes the 400 response and returns ok=false.
func (h *Handler) verifiedBody(c *gin.Context, provider string) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return nil, false
	}

	scheme := h.schemes[provider]
	signature := c.GetHeader(scheme.Header)

	if !scheme.Verify(body, signature) {
		logger.Warn("webhook signature rejected", map[string]any{
			"provider": provider,
		})
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return nil, false
	}

	return body, true
}

func (h *Handler) dispatch(c *gin.Context, evt Event) {
	if err := h.dispatcher.Dispatch(c.Request.Context(), evt); err != nil {
		logger.Error("webhook processing failed", map[string]any{
			"provider":  evt.Provider,
			"event":     evt.Type,
			"reference": evt.Reference,
			"error":     err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok", "status": true})
}

func (h *Handler) paystack(c *gin.Context) {
	body, ok := h.verifiedBody(c, ProviderPaystack)
	if !ok {
		return
	}

	// Paystack amounts are already in kobo.
	var payload struct {
		Event string `json:"event"`
		Data  struct {
			Reference string `json:"reference"`
			Status    string `json:"status"`
			Amount    int64  `json:"amount"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Event == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	h.dispatch(c, Event{
		Provider:   ProviderPaystack,
		Type:       payload.Event,
		Reference:  payload.Data.Reference,
		Status:     payload.Data.Status,
		AmountKobo: payload.Data.Amount,
	})
}

func (h *Handler) korapay(c *gin.Context) {
	body, ok := h.verifiedBody(c, ProviderKorapay)
	if !ok {
		return
	}

	// Korapay amounts are in naira.
	var payload struct {
		Event string `json:"event"`
		Data  struct {
			Reference string  `json:"reference"`
			Status    string  `json:"status"`
			Amount    float64 `json:"amount"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Event == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	h.dispatch(c, Event{
		Provider:   ProviderKorapay,
		Type:       payload.Event,
		Reference:  payload.Data.Reference,
		Status:     payload.Data.Status,
		AmountKobo: koboFromNaira(payload.Data.Amount),
	})
}

func (h *Handler) flutterwave(c *gin.Context) {
	body, ok := h.verifiedBody(c, ProviderFlutterwave)
	if !ok {
		return
	}

	var payload struct {
		Event string `json:"event"`
		Data  struct {
			TxRef  string  `json:"tx_ref"`
			Status string  `json:"status"`
			Amount float64 `json:"amount"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Event == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	h.dispatch(c, Event{
		Provider:   ProviderFlutterwave,
		Type:       payload.Event,
		Reference:  payload.Data.TxRef,
		Status:     payload.Data.Status,
		AmountKobo: koboFromNaira(payload.Data.Amount),
	})
}

func (h *Handler) ebills(c *gin.Context) {
	body, ok := h.verifiedBody(c, ProviderEbills)
	if !ok {
		return
	}

	var payload struct {
		Event     string  `json:"event"`
		RequestID string  `json:"request_id"`
		Status    string  `json:"status"`
		Amount    float64 `json:"amount"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Event == "" || payload.RequestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	reference, subjectID := ParseRequestID(payload.RequestID)

	h.dispatch(c, Event{
		Provider:   ProviderEbills,
		Type:       payload.Event,
		Reference:  reference,
		Status:     payload.Status,
		AmountKobo: koboFromNaira(payload.Amount),
		SubjectID:  subjectID,
	})
}
