package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func jsonDecode(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func TestPaystack_InitializeFunding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transaction/initialize" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Fatalf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": true,
			"data": {"authorization_url": "https://checkout.example/x", "reference": "fund-1"}
		}`))
	}))
	defer server.Close()

	client := newPaystackAt(server.URL, "sk_test")

	intent, err := client.InitializeFunding(context.Background(), FundingRequest{
		Reference:  "fund-1",
		Email:      "ada@example.com",
		AmountKobo: 500000,
	})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if intent.CheckoutURL != "https://checkout.example/x" {
		t.Fatalf("checkout url = %q", intent.CheckoutURL)
	}
	if intent.Reference != "fund-1" {
		t.Fatalf("reference = %q", intent.Reference)
	}
}

func TestPaystack_VerifyFunding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/fund-1" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"status": true,
			"data": {"reference": "fund-1", "status": "success", "amount": 500000}
		}`))
	}))
	defer server.Close()

	client := newPaystackAt(server.URL, "sk_test")

	status, err := client.VerifyFunding(context.Background(), "fund-1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if status.Status != "success" || status.AmountKobo != 500000 {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestKorapay_PayoutUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status": false, "message": "insufficient merchant balance"}`))
	}))
	defer server.Close()

	client := newKorapayAt(server.URL, "sk_test")

	err := client.Payout(context.Background(), PayoutRequest{
		Reference:     "wd-1",
		AmountKobo:    500000,
		BankCode:      "058",
		AccountNumber: "0123456789",
	})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestKorapay_AmountConversion(t *testing.T) {
	var gotAmount float64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Amount float64 `json:"amount"`
		}
		if err := jsonDecode(r, &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		gotAmount = body.Amount
		w.Write([]byte(`{"status": true, "data": {"reference": "fund-2", "checkout_url": "https://x"}}`))
	}))
	defer server.Close()

	client := newKorapayAt(server.URL, "sk_test")

	_, err := client.InitializeFunding(context.Background(), FundingRequest{
		Reference:  "fund-2",
		Email:      "ada@example.com",
		AmountKobo: 150050,
	})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if gotAmount != 1500.5 {
		t.Fatalf("amount on the wire = %v naira, want 1500.5", gotAmount)
	}
}

func TestFlutterwave_VerifyFunding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("tx_ref"); got != "flw-1" {
			t.Fatalf("tx_ref = %q", got)
		}
		w.Write([]byte(`{
			"status": "success",
			"data": {"tx_ref": "flw-1", "status": "successful", "amount": 2000}
		}`))
	}))
	defer server.Close()

	client := newFlutterwaveAt(server.URL, "sk_test")

	status, err := client.VerifyFunding(context.Background(), "flw-1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if status.AmountKobo != 200000 {
		t.Fatalf("amount = %d kobo, want 200000", status.AmountKobo)
	}
}

func TestEbills_BuyAirtime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/airtime" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"code": "success",
			"data": {"order_id": "9912", "request_id": "air_1_user-1", "status": "processing"}
		}`))
	}))
	defer server.Close()

	client, err := NewEbills(server.URL, "key")
	if err != nil {
		t.Fatalf("new ebills: %v", err)
	}

	receipt, err := client.BuyAirtime(context.Background(), "air_1_user-1", "mtn", "08030000000", 100000)
	if err != nil {
		t.Fatalf("buy airtime: %v", err)
	}
	if receipt.OrderID != "9912" || receipt.Status != "processing" {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
}

func TestEbills_WalletBalance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/balance" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"code": "success", "data": {"balance": 25400.50}}`))
	}))
	defer server.Close()

	client, err := NewEbills(server.URL, "key")
	if err != nil {
		t.Fatalf("new ebills: %v", err)
	}

	balance, err := client.WalletBalance(context.Background())
	if err != nil {
		t.Fatalf("wallet balance: %v", err)
	}
	if balance != 25400.50 {
		t.Fatalf("balance = %v, want 25400.50", balance)
	}
}

func TestNewClientsRejectEmptyConfig(t *testing.T) {
	if _, err := NewPaystack(""); err == nil {
		t.Fatal("paystack must reject empty secret")
	}
	if _, err := NewKorapay(""); err == nil {
		t.Fatal("korapay must reject empty secret")
	}
	if _, err := NewFlutterwave(""); err == nil {
		t.Fatal("flutterwave must reject empty secret")
	}
	if _, err := NewEbills("", "key"); err == nil {
		t.Fatal("ebills must reject empty base url")
	}
}

func TestKoboFromNaira_Rounds(t *testing.T) {
	cases := map[float64]int64{
		4999.99: 499999,
		1500.5:  150050,
		0.01:    1,
		2000:    200000,
	}
	for naira, want := range cases {
		if got := koboFromNaira(naira); got != want {
			t.Fatalf("koboFromNaira(%v) = %d, want %d", naira, got, want)
		}
	}
}

func TestRegistry_Lookup(t *testing.T) {
	paystack := newPaystackAt("http://unused", "sk")
	registry := NewRegistry(paystack)

	got, err := registry.Get("paystack")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name() != "paystack" {
		t.Fatalf("name = %q", got.Name())
	}

	if _, err := registry.Get("stripe"); err == nil {
		t.Fatal("expected error for unregistered provider")
	}
}
