package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// InitializeRequest is the single, versioned shape sent to the gateway's
// transaction-initialize endpoint. Amount is in currency subunits.
type InitializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// InitializeData is the gateway's response payload for a created transaction.
type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// VerifyData is the gateway's response payload for a verified transaction.
type VerifyData struct {
	ID      int64  `json:"id"`
	Status  string `json:"status"` // "success", "failed", "abandoned"
	Amount  int64  `json:"amount"`
	Channel string `json:"channel"`
	PaidAt  string `json:"paid_at"` // RFC3339, empty when unpaid
}

// Gateway is the externally observable contract of the payment gateway. The
// gateway's own transaction processing is out of scope; only initialize and
// verify are exercised.
type Gateway interface {
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeData, error)
	Verify(ctx context.Context, reference string) (*VerifyData, error)
}

// HTTPGateway talks to a Paystack-compatible REST API.
type HTTPGateway struct {
	BaseURL string
	Secret  string
	Client  *http.Client
}

// NewHTTPGateway builds a gateway client with a bounded request timeout.
// Timeouts surface as errors and trigger the caller's compensation; there is
// no retry at this layer.
func NewHTTPGateway(baseURL, secret string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		BaseURL: baseURL,
		Secret:  secret,
		Client:  &http.Client{Timeout: timeout},
	}
}

type gatewayEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (g *HTTPGateway) Initialize(ctx context.Context, req InitializeRequest) (*InitializeData, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode initialize request: %w", err)
	}

	var data InitializeData
	if err := g.do(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(body), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (g *HTTPGateway) Verify(ctx context.Context, reference string) (*VerifyData, error) {
	var data VerifyData
	if err := g.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, g.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.Secret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read gateway response: %w", err)
	}

	var envelope gatewayEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to decode gateway response (%d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Status {
		return fmt.Errorf("gateway rejected request (%d): %s", resp.StatusCode, envelope.Message)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode gateway payload: %w", err)
	}
	return nil
}
