package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

const flutterwaveBaseURL = "https://api.flutterwave.com/v3"

// Flutterwave is the third funding rail. Wire amounts are in naira.
type Flutterwave struct {
	api apiClient
}

func NewFlutterwave(secretKey string) (*Flutterwave, error) {
	if secretKey == "" {
		return nil, errors.New("flutterwave config missing secret key")
	}
	return &Flutterwave{
		api: newAPIClient(flutterwaveBaseURL, "Bearer "+secretKey),
	}, nil
}

func newFlutterwaveAt(baseURL, secretKey string) *Flutterwave {
	return &Flutterwave{api: newAPIClient(baseURL, "Bearer "+secretKey)}
}

func (f *Flutterwave) Name() string { return "flutterwave" }

func (f *Flutterwave) InitializeFunding(ctx context.Context, req FundingRequest) (*CheckoutIntent, error) {
	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Link string `json:"link"`
		} `json:"data"`
	}

	err := f.api.do(ctx, http.MethodPost, "/payments", map[string]any{
		"tx_ref":       req.Reference,
		"amount":       nairaFromKobo(req.AmountKobo),
		"currency":     "NGN",
		"redirect_url": req.CallbackURL,
		"customer": map[string]any{
			"email": req.Email,
		},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, fmt.Errorf("%w: flutterwave rejected initialization", ErrUpstream)
	}

	return &CheckoutIntent{
		Reference:   req.Reference,
		CheckoutURL: resp.Data.Link,
	}, nil
}

func (f *Flutterwave) VerifyFunding(ctx context.Context, reference string) (*FundingStatus, error) {
	var resp struct {
		Status string `json:"status"`
		Data   struct {
			TxRef  string  `json:"tx_ref"`
			Status string  `json:"status"`
			Amount float64 `json:"amount"`
		} `json:"data"`
	}

	path := "/transactions/verify_by_reference?tx_ref=" + url.QueryEscape(reference)
	if err := f.api.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, fmt.Errorf("%w: flutterwave rejected verification", ErrUpstream)
	}

	return &FundingStatus{
		Reference:  resp.Data.TxRef,
		Status:     resp.Data.Status,
		AmountKobo: koboFromNaira(resp.Data.Amount),
	}, nil
}
