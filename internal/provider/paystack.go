package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

const paystackBaseURL = "https://api.paystack.co"

// Paystack funds wallets through hosted checkout. Amounts on the wire
// are in kobo, matching ours.
type Paystack struct {
	api apiClient
}

func NewPaystack(secretKey string) (*Paystack, error) {
	if secretKey == "" {
		return nil, errors.New("paystack config missing secret key")
	}
	return &Paystack{
		api: newAPIClient(paystackBaseURL, "Bearer "+secretKey),
	}, nil
}

// newPaystackAt is used by tests to point the client at a fake server.
func newPaystackAt(baseURL, secretKey string) *Paystack {
	return &Paystack{api: newAPIClient(baseURL, "Bearer "+secretKey)}
}

func (p *Paystack) Name() string { return "paystack" }

func (p *Paystack) InitializeFunding(ctx context.Context, req FundingRequest) (*CheckoutIntent, error) {
	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			AuthorizationURL string `json:"authorization_url"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}

	err := p.api.do(ctx, http.MethodPost, "/transaction/initialize", map[string]any{
		"email":        req.Email,
		"amount":       req.AmountKobo,
		"reference":    req.Reference,
		"callback_url": req.CallbackURL,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("%w: paystack rejected initialization", ErrUpstream)
	}

	return &CheckoutIntent{
		Reference:   resp.Data.Reference,
		CheckoutURL: resp.Data.AuthorizationURL,
	}, nil
}

func (p *Paystack) VerifyFunding(ctx context.Context, reference string) (*FundingStatus, error) {
	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			Reference string `json:"reference"`
			Status    string `json:"status"`
			Amount    int64  `json:"amount"`
		} `json:"data"`
	}

	err := p.api.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("%w: paystack rejected verification", ErrUpstream)
	}

	return &FundingStatus{
		Reference:  resp.Data.Reference,
		Status:     resp.Data.Status,
		AmountKobo: resp.Data.Amount,
	}, nil
}
