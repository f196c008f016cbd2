package app

import (
	"context"
	"fmt"

	"github.com/tonymorry/uniparty/internal/domain"
	"github.com/tonymorry/uniparty/internal/payment"
	"github.com/tonymorry/uniparty/internal/payout"
)

type CheckoutRepository interface {
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	SetExternalSessionRef(ctx context.Context, orderID, sessionRef string) error
}

// CheckoutService opens hosted checkout sessions for pending orders. The
// session carries only the order id as metadata; the provider's metadata
// channel cannot hold the holder-name list.
type CheckoutService struct {
	repo     CheckoutRepository
	provider payment.Provider
	payouts  payout.Directory
}

func NewCheckoutService(repo CheckoutRepository, provider payment.Provider, payouts payout.Directory) *CheckoutService {
	return &CheckoutService{
		repo:     repo,
		provider: provider,
		payouts:  payouts,
	}
}

// OpenCheckout returns the redirect URL of a fresh checkout session.
func (s *CheckoutService) OpenCheckout(ctx context.Context, orderID string) (string, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.Status != domain.OrderStatusPending {
		return "", domain.ErrOrderNotPending
	}

	event, err := s.repo.GetEvent(ctx, order.EventID)
	if err != nil {
		return "", err
	}

	onboarded, err := s.payouts.IsOnboarded(ctx, event.OrganizerID)
	if err != nil {
		return "", fmt.Errorf("check payout onboarding: %w", err)
	}
	if !onboarded {
		return "", domain.ErrPayeeNotOnboarded
	}

	session, err := s.provider.CreateSession(ctx, payment.SessionParams{
		OrderID:              order.ID,
		Description:          fmt.Sprintf("%s - admission ticket", event.Name),
		Quantity:             order.Quantity,
		UnitAmountMinorUnits: order.TotalAmountMinorUnits / order.Quantity,
	})
	if err != nil {
		return "", err
	}

	if err := s.repo.SetExternalSessionRef(ctx, order.ID, session.ID); err != nil {
		return "", err
	}
	return session.URL, nil
}
