// Package payment adapts the hosted-checkout payment provider: creating
// checkout sessions and authenticating webhook notifications.
//
// The provider's metadata channel is size-limited, so a session only ever
// carries the order id; everything else stays in the order store.
package payment

import "context"

// SessionParams describes one checkout session. OrderID is the sole
// correlation key between the session and our order store.
type SessionParams struct {
	OrderID              string
	Description          string
	Quantity             int
	UnitAmountMinorUnits int
	Currency             string
}

// Session is the provider's hosted checkout session.
type Session struct {
	ID  string
	URL string
}

// Provider creates hosted checkout sessions.
type Provider interface {
	CreateSession(ctx context.Context, p SessionParams) (Session, error)
}
