package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
)

// Order is a staged purchase intent. It is created at checkout request time
// and finalized exactly once by fulfillment: pending -> completed or
// pending -> failed. Terminal states are immutable.
//
// The order row is also the indirection for the payment provider's
// size-limited metadata channel: holder names never cross that boundary,
// only the order id does.
type Order struct {
	ID          string
	BuyerID     string
	EventID     string
	Quantity    int
	HolderNames []string
	// HolderFaculties is parallel to HolderNames when the event requires
	// academic info; empty otherwise.
	HolderFaculties       []string
	SelectedList          string
	TotalAmountMinorUnits int
	Status                OrderStatus
	// ExternalSessionRef is the hosted checkout session id, set once a
	// session has been opened for this order.
	ExternalSessionRef *string
	CreatedAt          time.Time
}

// Terminal reports whether the order has reached an immutable state.
func (o Order) Terminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusFailed
}

// DefaultSelectedList is used when the buyer picked no guest list.
const DefaultSelectedList = "none"
