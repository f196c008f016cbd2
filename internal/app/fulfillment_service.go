package app

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/tonymorry/uniparty/internal/clock"
	"github.com/tonymorry/uniparty/internal/domain"
)

type FulfillmentRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error)
	GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error)
	IncrementSoldCount(ctx context.Context, eventID string, by int) error
	CreateTicket(ctx context.Context, ticket domain.Ticket) error
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
}

// TicketsIssuedNotice is handed to the notifier after a successful
// fulfillment. It never carries ticket codes.
type TicketsIssuedNotice struct {
	OrderID     string
	EventID     string
	EventName   string
	BuyerID     string
	HolderNames []string
}

// Notifier delivers issued-ticket confirmations. Best effort: a failure here
// never affects ticket validity.
type Notifier interface {
	TicketsIssued(ctx context.Context, notice TicketsIssuedNotice) error
}

// FulfillmentService turns a confirmed payment into tickets: one transaction
// re-checks the order state and the capacity ledger, increments sold_count
// and creates one ticket per holder name. The payment provider redelivers
// notifications at least once, so Materialize must be a no-op for any order
// that already reached a terminal state.
type FulfillmentService struct {
	repo     FulfillmentRepository
	clock    clock.Clock
	notifier Notifier
	logger   *log.Logger
}

func NewFulfillmentService(repo FulfillmentRepository, clk clock.Clock, notifier Notifier, logger *log.Logger) *FulfillmentService {
	if logger == nil {
		logger = log.Default()
	}
	return &FulfillmentService{
		repo:     repo,
		clock:    clk,
		notifier: notifier,
		logger:   logger,
	}
}

// Materialize issues the tickets for a paid order. Safe to replay: a
// non-pending order returns nil without touching anything. Returns
// domain.ErrSoldOut when capacity ran out between intake and payment; that
// path marks the order failed (committed) and must be reconciled by ops,
// since the buyer's money has already been captured.
func (s *FulfillmentService) Materialize(ctx context.Context, orderID string) error {
	now := s.clock.Now()

	var (
		soldOut bool
		issued  bool
		order   domain.Order
		event   domain.Event
	)

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.repo.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.Status != domain.OrderStatusPending {
			// Redelivery or a lost race against another delivery of the same
			// notification. The terminal state is the dedupe record.
			return nil
		}

		event, err = s.repo.GetEventForUpdate(txCtx, order.EventID)
		if err != nil {
			return err
		}

		if event.SoldCount+order.Quantity > event.Capacity {
			// Authoritative check failed after payment. Commit the failed
			// status so redeliveries stop retrying a lost cause.
			soldOut = true
			return s.repo.UpdateOrderStatus(txCtx, order.ID, domain.OrderStatusFailed)
		}

		if err := s.repo.IncrementSoldCount(txCtx, event.ID, order.Quantity); err != nil {
			return err
		}

		for _, name := range order.HolderNames {
			code, err := newTicketCode()
			if err != nil {
				return err
			}
			ticket := domain.Ticket{
				ID:           uuid.NewString(),
				EventID:      event.ID,
				OwnerID:      order.BuyerID,
				HolderName:   name,
				Code:         code,
				SelectedList: order.SelectedList,
				State:        domain.TicketStateValid,
				OrderID:      order.ID,
				CreatedAt:    now,
			}
			if err := s.repo.CreateTicket(txCtx, ticket); err != nil {
				return err
			}
		}

		if err := s.repo.UpdateOrderStatus(txCtx, order.ID, domain.OrderStatusCompleted); err != nil {
			return err
		}
		issued = true
		return nil
	})
	if err != nil {
		return err
	}

	if soldOut {
		s.logger.Printf(
			"ERROR: reconciliation required: order %s paid but event %s sold out (capacity=%d sold=%d requested=%d)",
			order.ID, event.ID, event.Capacity, event.SoldCount, order.Quantity,
		)
		return domain.ErrSoldOut
	}

	if issued && s.notifier != nil {
		notice := TicketsIssuedNotice{
			OrderID:     order.ID,
			EventID:     event.ID,
			EventName:   event.Name,
			BuyerID:     order.BuyerID,
			HolderNames: order.HolderNames,
		}
		// Post-commit and deliberately detached from the request: delivery
		// failures are logged, never propagated, and the tickets stay valid.
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.notifier.TicketsIssued(nctx, notice); err != nil {
				s.logger.Printf("WARN: ticket notification for order %s failed: %v", notice.OrderID, err)
			}
		}()
	}
	return nil
}

// MarkFailed records a failed or expired checkout. Idempotent the same way
// Materialize is: terminal orders are left untouched.
func (s *FulfillmentService) MarkFailed(ctx context.Context, orderID string) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.Terminal() {
			return nil
		}
		return s.repo.UpdateOrderStatus(txCtx, order.ID, domain.OrderStatusFailed)
	})
}
