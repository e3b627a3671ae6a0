package provider

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
)

const korapayBaseURL = "https://api.korapay.com/merchant/api/v1"

// Korapay funds wallets and pays out withdrawals. Its wire amounts are
// in naira, converted at this boundary.
type Korapay struct {
	api apiClient
}

func NewKorapay(secretKey string) (*Korapay, error) {
	if secretKey == "" {
		return nil, errors.New("korapay config missing secret key")
	}
	return &Korapay{
		api: newAPIClient(korapayBaseURL, "Bearer "+secretKey),
	}, nil
}

func newKorapayAt(baseURL, secretKey string) *Korapay {
	return &Korapay{api: newAPIClient(baseURL, "Bearer "+secretKey)}
}

func (k *Korapay) Name() string { return "korapay" }

func (k *Korapay) InitializeFunding(ctx context.Context, req FundingRequest) (*CheckoutIntent, error) {
	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			Reference   string `json:"reference"`
			CheckoutURL string `json:"checkout_url"`
		} `json:"data"`
	}

	err := k.api.do(ctx, http.MethodPost, "/charges/initialize", map[string]any{
		"reference":    req.Reference,
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
	if !resp.Status {
		return nil, fmt.Errorf("%w: korapay rejected initialization", ErrUpstream)
	}

	return &CheckoutIntent{
		Reference:   resp.Data.Reference,
		CheckoutURL: resp.Data.CheckoutURL,
	}, nil
}

func (k *Korapay) VerifyFunding(ctx context.Context, reference string) (*FundingStatus, error) {
	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			Reference string  `json:"reference"`
			Status    string  `json:"status"`
			Amount    float64 `json:"amount"`
		} `json:"data"`
	}

	err := k.api.do(ctx, http.MethodGet, "/charges/"+reference, nil, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("%w: korapay rejected verification", ErrUpstream)
	}

	return &FundingStatus{
		Reference:  resp.Data.Reference,
		Status:     resp.Data.Status,
		AmountKobo: koboFromNaira(resp.Data.Amount),
	}, nil
}

// PayoutRequest sends wallet funds to a bank account.
type PayoutRequest struct {
	Reference     string
	AmountKobo    int64
	BankCode      string
	AccountNumber string
	Narration     string
}

func (k *Korapay) Payout(ctx context.Context, req PayoutRequest) error {
	var resp struct {
		Status bool `json:"status"`
	}

	err := k.api.do(ctx, http.MethodPost, "/transactions/disburse", map[string]any{
		"reference": req.Reference,
		"destination": map[string]any{
			"type":      "bank_account",
			"amount":    nairaFromKobo(req.AmountKobo),
			"currency":  "NGN",
			"narration": req.Narration,
			"bank_account": map[string]any{
				"bank":    req.BankCode,
				"account": req.AccountNumber,
			},
		},
	}, &resp)
	if err != nil {
		return err
	}
	if !resp.Status {
		return fmt.Errorf("%w: korapay rejected payout", ErrUpstream)
	}

	return nil
}

// BankAccount is the resolved owner of an account number.
type BankAccount struct {
	AccountNumber string
	AccountName   string
	BankCode      string
}

func (k *Korapay) ResolveBankAccount(ctx context.Context, bankCode, accountNumber string) (*BankAccount, error) {
	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			AccountNumber string `json:"account_number"`
			AccountName   string `json:"account_name"`
			BankCode      string `json:"bank_code"`
		} `json:"data"`
	}

	err := k.api.do(ctx, http.MethodPost, "/misc/banks/resolve", map[string]any{
		"bank":    bankCode,
		"account": accountNumber,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("%w: korapay could not resolve account", ErrUpstream)
	}

	return &BankAccount{
		AccountNumber: resp.Data.AccountNumber,
		AccountName:   resp.Data.AccountName,
		BankCode:      resp.Data.BankCode,
	}, nil
}

func nairaFromKobo(kobo int64) float64 {
	return float64(kobo) / 100
}

// koboFromNaira rounds rather than truncates: float wire amounts like
// 4999.99 must come back as 499999 kobo, not 499998.
func koboFromNaira(naira float64) int64 {
	return int64(math.Round(naira * 100))
}
