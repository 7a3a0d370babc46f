package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"sokoni/pkg/utils"
)

// Provider is the mobile-money aggregator behind checkout. Callers get a
// hosted checkout URL; completion comes back through the app deep link
// and is then confirmed by polling PaymentStatus.
type Provider interface {
	InitiatePayment(ctx context.Context, req PayRequest) (*PayResponse, error)
	PaymentStatus(ctx context.Context, paymentID string) (map[string]any, error)
}

type PayRequest struct {
	Amount  float64 `json:"amount"`
	Phone   string  `json:"phone"`
	Network string  `json:"network"`
	UserID  string  `json:"userId"`
	ItemID  string  `json:"itemId"`
}

type PayResponse struct {
	PaymentID   string `json:"paymentId"`
	CheckoutURL string `json:"checkoutUrl"`
}

type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(config utils.PaymentConfig, log *zap.Logger) Provider {
	timeout := time.Duration(config.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &client{
		baseURL:    config.BaseURL,
		apiKey:     config.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With(zap.String("component", "payment_provider")),
	}
}

func (c *client) InitiatePayment(ctx context.Context, req PayRequest) (*PayResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pay", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error("Payment initiation failed", zap.Error(err))
		return nil, fmt.Errorf("initiate payment: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read payment response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.log.Error("Payment provider rejected request",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw),
		)
		return nil, fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}

	var payResp PayResponse
	if err := json.Unmarshal(raw, &payResp); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}
	if payResp.PaymentID == "" {
		return nil, fmt.Errorf("payment provider returned no payment id")
	}

	return &payResp, nil
}

func (c *client) PaymentStatus(ctx context.Context, paymentID string) (map[string]any, error) {
	url := fmt.Sprintf("%s/payment-status/%s", c.baseURL, paymentID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error("Payment status check failed",
			zap.Error(err),
			zap.String("payment_id", paymentID),
		)
		return nil, fmt.Errorf("payment status %s: %w", paymentID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment status %s: provider returned %d", paymentID, resp.StatusCode)
	}

	// upstream status payload is free-form; mirror it as-is
	var status map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode status response: %w", err)
	}

	return status, nil
}
