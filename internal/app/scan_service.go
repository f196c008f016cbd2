package app

import (
	"context"
	"time"

	"github.com/tonymorry/uniparty/internal/clock"
	"github.com/tonymorry/uniparty/internal/domain"
)

type ScanRepository interface {
	// GetTicketByCode returns the ticket together with its event (organizer
	// ownership and exit-tracking flag are needed to judge the scan).
	GetTicketByCode(ctx context.Context, code string) (domain.Ticket, domain.Event, error)
	// TransitionState moves the ticket from one lifecycle state to another as
	// a single conditional update. Returns false when the ticket was no
	// longer in the expected state, i.e. a concurrent scanner won.
	TransitionState(ctx context.Context, ticketID string, from, to domain.TicketState, at time.Time) (bool, error)
}

// ScanService is the door-staff scan protocol. Many scanner devices hit the
// same event concurrently, so the state transition is a compare-and-set on
// the current state rather than a read-then-write.
type ScanService struct {
	repo  ScanRepository
	clock clock.Clock
}

func NewScanService(repo ScanRepository, clk clock.Clock) *ScanService {
	return &ScanService{
		repo:  repo,
		clock: clk,
	}
}

type ScanResult struct {
	Ticket   domain.Ticket
	NewState domain.TicketState
}

// ValidateScan looks a ticket up by code on behalf of a scanning
// organization and applies the next lifecycle transition:
//
//	valid   -> entered    (records entry time)
//	entered -> completed  (exit-tracking events only, records exit time)
//
// Everything else is rejected: unknown code with ErrInvalidTicket, a ticket
// of another organizer's event with ErrForeignEvent (no state change), and
// exhausted tickets - or lost races - with ErrTicketAlreadyUsed.
func (s *ScanService) ValidateScan(ctx context.Context, code, scanningOrgID string) (ScanResult, error) {
	if code == "" {
		return ScanResult{}, domain.ErrInvalidTicket
	}

	ticket, event, err := s.repo.GetTicketByCode(ctx, code)
	if err != nil {
		return ScanResult{}, err
	}

	if event.OrganizerID != scanningOrgID {
		return ScanResult{}, domain.ErrForeignEvent
	}

	var next domain.TicketState
	switch ticket.State {
	case domain.TicketStateValid:
		next = domain.TicketStateEntered
	case domain.TicketStateEntered:
		if !event.ExitTracking {
			return ScanResult{}, domain.ErrTicketAlreadyUsed
		}
		next = domain.TicketStateCompleted
	default:
		return ScanResult{}, domain.ErrTicketAlreadyUsed
	}

	now := s.clock.Now()
	ok, err := s.repo.TransitionState(ctx, ticket.ID, ticket.State, next, now)
	if err != nil {
		return ScanResult{}, err
	}
	if !ok {
		return ScanResult{}, domain.ErrTicketAlreadyUsed
	}

	switch next {
	case domain.TicketStateEntered:
		ticket.EnteredAt = &now
	case domain.TicketStateCompleted:
		ticket.ExitedAt = &now
	}
	ticket.State = next

	return ScanResult{Ticket: ticket, NewState: next}, nil
}
