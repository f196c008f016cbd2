// Package payout exposes the organizer payout-account directory. Checkout
// may only open sessions for organizers with a completed payout setup.
package payout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Directory answers whether an organizer can receive payouts.
type Directory interface {
	IsOnboarded(ctx context.Context, organizerID string) (bool, error)
}

// Client queries the payout collaborator over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type onboardingResponse struct {
	Onboarded bool `json:"onboarded"`
}

func (c *Client) IsOnboarded(ctx context.Context, organizerID string) (bool, error) {
	u := c.baseURL + "/organizers/" + url.PathEscape(organizerID) + "/onboarding"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("build onboarding request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("query onboarding: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var out onboardingResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return false, fmt.Errorf("decode onboarding response: %w", err)
		}
		return out.Onboarded, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("query onboarding: status %d", resp.StatusCode)
	}
}

// Static is a fixed directory for development and tests. A nil set treats
// every organizer as onboarded.
type Static struct {
	onboarded map[string]bool
}

func NewStatic(organizerIDs ...string) *Static {
	if len(organizerIDs) == 0 {
		return &Static{}
	}
	m := make(map[string]bool, len(organizerIDs))
	for _, id := range organizerIDs {
		m[id] = true
	}
	return &Static{onboarded: m}
}

func (s *Static) IsOnboarded(_ context.Context, organizerID string) (bool, error) {
	if s.onboarded == nil {
		return true, nil
	}
	return s.onboarded[organizerID], nil
}
