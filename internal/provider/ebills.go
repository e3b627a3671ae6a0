package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Ebills is the VTU aggregator behind airtime, data and bill payment.
// Orders settle asynchronously: the synchronous response only confirms
// the order was placed, the outcome arrives by webhook.
type Ebills struct {
	api apiClient
}

func NewEbills(baseURL, apiKey string) (*Ebills, error) {
	if baseURL == "" || apiKey == "" {
		return nil, errors.New("ebills config missing base url or api key")
	}
	return &Ebills{
		api: newAPIClient(baseURL, "Bearer "+apiKey),
	}, nil
}

func (e *Ebills) Name() string { return "ebills" }

// OrderReceipt acknowledges a placed VTU order.
type OrderReceipt struct {
	OrderID   string
	RequestID string
	Status    string
}

type ebillsResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		OrderID   string `json:"order_id"`
		RequestID string `json:"request_id"`
		Status    string `json:"status"`
	} `json:"data"`
}

func (e *Ebills) placeOrder(ctx context.Context, path string, body map[string]any) (*OrderReceipt, error) {
	var resp ebillsResponse
	if err := e.api.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	if resp.Code != "success" {
		return nil, fmt.Errorf("%w: ebills rejected order: %s", ErrUpstream, resp.Message)
	}

	return &OrderReceipt{
		OrderID:   resp.Data.OrderID,
		RequestID: resp.Data.RequestID,
		Status:    resp.Data.Status,
	}, nil
}

func (e *Ebills) BuyAirtime(ctx context.Context, requestID, network, phone string, amountKobo int64) (*OrderReceipt, error) {
	return e.placeOrder(ctx, "/airtime", map[string]any{
		"request_id": requestID,
		"network":    network,
		"phone":      phone,
		"amount":     nairaFromKobo(amountKobo),
	})
}

func (e *Ebills) BuyData(ctx context.Context, requestID, network, phone, variationID string) (*OrderReceipt, error) {
	return e.placeOrder(ctx, "/data", map[string]any{
		"request_id":   requestID,
		"network":      network,
		"phone":        phone,
		"variation_id": variationID,
	})
}

func (e *Ebills) PayCableTV(ctx context.Context, requestID, serviceID, customerID, variationID string) (*OrderReceipt, error) {
	return e.placeOrder(ctx, "/tv", map[string]any{
		"request_id":   requestID,
		"service_id":   serviceID,
		"customer_id":  customerID,
		"variation_id": variationID,
	})
}

func (e *Ebills) PayElectricity(ctx context.Context, requestID, serviceID, meterNumber, meterType string, amountKobo int64) (*OrderReceipt, error) {
	return e.placeOrder(ctx, "/electricity", map[string]any{
		"request_id":   requestID,
		"service_id":   serviceID,
		"meter_number": meterNumber,
		"meter_type":   meterType,
		"amount":       nairaFromKobo(amountKobo),
	})
}

// WalletBalance reads the aggregator wallet. Used by the detached
// balance check that runs after each placed order.
func (e *Ebills) WalletBalance(ctx context.Context) (float64, error) {
	var resp struct {
		Code string `json:"code"`
		Data struct {
			Balance float64 `json:"balance"`
		} `json:"data"`
	}

	if err := e.api.do(ctx, http.MethodGet, "/balance", nil, &resp); err != nil {
		return 0, err
	}
	if resp.Code != "success" {
		return 0, fmt.Errorf("%w: ebills rejected balance query", ErrUpstream)
	}

	return resp.Data.Balance, nil
}
