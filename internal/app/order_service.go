package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/tonymorry/uniparty/internal/clock"
	"github.com/tonymorry/uniparty/internal/domain"
)

type OrderRepository interface {
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	CreateOrder(ctx context.Context, order domain.Order) error
}

// OrderService stages purchase intents. The capacity check here is advisory
// only: it rejects obviously doomed orders early, but the authoritative check
// runs again inside the fulfillment transaction.
type OrderService struct {
	repo       OrderRepository
	clock      clock.Clock
	serviceFee int
}

// Fixed per-ticket surcharge in minor units, waived for free events.
const defaultServiceFeeMinorUnits = 50

func NewOrderService(repo OrderRepository, clk clock.Clock, opts ...OrderServiceOption) *OrderService {
	svc := &OrderService{
		repo:       repo,
		clock:      clk,
		serviceFee: defaultServiceFeeMinorUnits,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type OrderServiceOption func(*OrderService)

// WithServiceFee overrides the default per-ticket surcharge.
func WithServiceFee(minorUnits int) OrderServiceOption {
	return func(s *OrderService) {
		if minorUnits >= 0 {
			s.serviceFee = minorUnits
		}
	}
}

type CreateOrderInput struct {
	BuyerID         string
	EventID         string
	Quantity        int
	HolderNames     []string
	HolderFaculties []string
	SelectedList    string
}

func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	if in.BuyerID == "" {
		return domain.Order{}, domain.ErrBuyerRequired
	}
	if in.Quantity < 1 {
		return domain.Order{}, domain.ErrInvalidQuantity
	}
	if len(in.HolderNames) != in.Quantity {
		return domain.Order{}, domain.ErrHolderCountMismatch
	}
	for _, name := range in.HolderNames {
		if name == "" {
			return domain.Order{}, domain.ErrHolderCountMismatch
		}
	}

	event, err := s.repo.GetEvent(ctx, in.EventID)
	if err != nil {
		return domain.Order{}, err
	}

	if event.RequiresAcademicInfo {
		if len(in.HolderFaculties) != in.Quantity {
			return domain.Order{}, domain.ErrAcademicInfoRequired
		}
	} else if len(in.HolderFaculties) != 0 && len(in.HolderFaculties) != in.Quantity {
		return domain.Order{}, domain.ErrFacultyCountMismatch
	}

	if in.Quantity > event.Remaining() {
		return domain.Order{}, domain.ErrCapacityExceeded
	}

	unit := event.UnitPriceMinorUnits
	if !event.IsFree() {
		unit += s.serviceFee
	}

	selected := in.SelectedList
	if selected == "" {
		selected = domain.DefaultSelectedList
	}

	order := domain.Order{
		ID:                    uuid.NewString(),
		BuyerID:               in.BuyerID,
		EventID:               in.EventID,
		Quantity:              in.Quantity,
		HolderNames:           in.HolderNames,
		HolderFaculties:       in.HolderFaculties,
		SelectedList:          selected,
		TotalAmountMinorUnits: in.Quantity * unit,
		Status:                domain.OrderStatusPending,
		CreatedAt:             s.clock.Now(),
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}
