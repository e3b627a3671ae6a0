package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUpstream marks a provider API call that failed or returned a
// non-success envelope. Callers surface it as {success:false, message}
// and never retry automatically.
var ErrUpstream = errors.New("provider: upstream failure")

// FundingRequest asks a payment provider for a hosted checkout.
type FundingRequest struct {
	Reference   string
	Email       string
	AmountKobo  int64
	CallbackURL string
}

// CheckoutIntent is the provider's answer: where to send the user.
type CheckoutIntent struct {
	Reference   string
	CheckoutURL string
}

// FundingStatus is the provider's view of a transaction, used by the
// verification call and the detached balance re-check.
type FundingStatus struct {
	Reference  string
	Status     string
	AmountKobo int64
}

// FundingClient is implemented by every card/bank funding provider.
type FundingClient interface {
	Name() string
	InitializeFunding(ctx context.Context, req FundingRequest) (*CheckoutIntent, error)
	VerifyFunding(ctx context.Context, reference string) (*FundingStatus, error)
}

// apiClient is the shared JSON-over-HTTP plumbing for all providers.
type apiClient struct {
	base          string
	authorization string
	http          *http.Client
}

func newAPIClient(base, authorization string) apiClient {
	return apiClient{
		base:          base,
		authorization: authorization,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *apiClient) do(
	ctx context.Context,
	method string,
	path string,
	body any,
	out any,
) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("provider: marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("provider: build request: %w", err)
	}
	req.Header.Set("Authorization", c.authorization)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s: %d: %s",
			ErrUpstream, method, path, resp.StatusCode, apiMessage(payload))
	}

	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
		}
	}

	return nil
}

// apiMessage pulls the human message out of an error envelope, if any.
func apiMessage(payload []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return "request rejected"
}
