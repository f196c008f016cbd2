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

const defaultTimeout = 10 * time.Second

// Client talks to the provider's checkout session API.
type Client struct {
	baseURL    string
	secretKey  string
	successURL string
	cancelURL  string
	httpClient *http.Client
}

func NewClient(baseURL, secretKey, successURL, cancelURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		secretKey:  secretKey,
		successURL: successURL,
		cancelURL:  cancelURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type lineItem struct {
	Name       string `json:"name"`
	UnitAmount int    `json:"unit_amount"`
	Currency   string `json:"currency"`
	Quantity   int    `json:"quantity"`
}

type createSessionRequest struct {
	LineItems  []lineItem        `json:"line_items"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata"`
}

type createSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (c *Client) CreateSession(ctx context.Context, p SessionParams) (Session, error) {
	currency := p.Currency
	if currency == "" {
		currency = "eur"
	}
	reqBody := createSessionRequest{
		LineItems: []lineItem{{
			Name:       p.Description,
			UnitAmount: p.UnitAmountMinorUnits,
			Currency:   currency,
			Quantity:   p.Quantity,
		}},
		SuccessURL: c.successURL,
		CancelURL:  c.cancelURL,
		Metadata:   map[string]string{"order_id": p.OrderID},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return Session{}, fmt.Errorf("marshal session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return Session{}, fmt.Errorf("build session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("create checkout session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Session{}, fmt.Errorf("create checkout session: status %d: %s", resp.StatusCode, raw)
	}

	var out createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Session{}, fmt.Errorf("decode session response: %w", err)
	}
	if out.ID == "" || out.URL == "" {
		return Session{}, fmt.Errorf("provider returned incomplete session")
	}
	return Session{ID: out.ID, URL: out.URL}, nil
}
