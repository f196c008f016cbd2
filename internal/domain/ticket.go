package domain

import "time"

type TicketState string

const (
	TicketStateValid     TicketState = "valid"
	TicketStateEntered   TicketState = "entered"
	TicketStateCompleted TicketState = "completed"
)

// Ticket is an issued admission credential. Its code is generated once,
// globally unique and unguessable. Tickets are created only by fulfillment,
// one per holder name of a completed order, and afterwards only their
// lifecycle state moves: valid -> entered -> completed.
type Ticket struct {
	ID           string
	EventID      string
	OwnerID      string
	HolderName   string
	Code         string
	SelectedList string
	State        TicketState
	EnteredAt    *time.Time
	ExitedAt     *time.Time
	OrderID      string
	CreatedAt    time.Time
}
