package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// Client talks to the Razorpay-style REST API. Orders are created with the
// amount in currency subunits; the user id travels in the order notes so
// the webhook can be correlated back without trusting the client.
type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

func NewClient(keyID, keySecret, baseURL string) *Client {
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type ProviderOrder struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes"`
}

type ProviderPayment struct {
	ID      string            `json:"id"`
	OrderID string            `json:"order_id"`
	Amount  int64             `json:"amount"`
	Status  string            `json:"status"` // created, authorized, captured, failed
	Notes   map[string]string `json:"notes"`
}

type createOrderRequest struct {
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	Receipt        string            `json:"receipt"`
	PartialPayment bool              `json:"partial_payment"`
	PaymentCapture int               `json:"payment_capture"`
	Notes          map[string]string `json:"notes"`
}

func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*ProviderOrder, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:         amount,
		Currency:       currency,
		Receipt:        receipt,
		PartialPayment: false,
		PaymentCapture: 1,
		Notes:          notes,
	})
	if err != nil {
		return nil, err
	}

	var order ProviderOrder
	if err := c.do(ctx, http.MethodPost, "/orders", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*ProviderPayment, error) {
	var payment ProviderPayment
	if err := c.do(ctx, http.MethodGet, "/payments/"+paymentID, nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d for %s %s", resp.StatusCode, method, path)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
