package domain

import "errors"

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrHolderCountMismatch  = errors.New("holder names must match quantity")
	ErrFacultyCountMismatch = errors.New("holder faculties must match quantity")
	ErrAcademicInfoRequired = errors.New("academic info required for this event")
	ErrBuyerRequired        = errors.New("buyer id required")
	ErrCapacityExceeded     = errors.New("capacity exceeded")
	// ErrSoldOut is the post-payment variant of a capacity failure: money has
	// already moved, so callers must surface it for reconciliation instead of
	// retrying.
	ErrSoldOut           = errors.New("sold out after payment")
	ErrOrderNotPending   = errors.New("order is not pending")
	ErrPayeeNotOnboarded = errors.New("organizer has no payout account")
	ErrInvalidTicket     = errors.New("ticket not found")
	ErrTicketAlreadyUsed = errors.New("ticket already used")
	ErrForeignEvent      = errors.New("ticket belongs to another organizer's event")
	ErrInvalidID         = errors.New("invalid id")

	ErrEventNameRequired = errors.New("event name required")
	ErrOrganizerRequired = errors.New("organizer id required")
	ErrInvalidCapacity   = errors.New("invalid capacity")
	ErrInvalidPrice      = errors.New("invalid price")
)
