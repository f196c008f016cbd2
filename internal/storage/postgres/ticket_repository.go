package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tonymorry/uniparty/internal/domain"
)

// TicketRepository backs the scanner protocol. Lookups join the event so the
// caller can judge organizer ownership and exit tracking in one round trip;
// transitions are single conditional updates keyed on the current state.
type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

func (r *TicketRepository) GetTicketByCode(ctx context.Context, code string) (domain.Ticket, domain.Event, error) {
	const query = `
SELECT t.id, t.event_id, t.owner_id, t.holder_name, t.code, t.selected_list,
       t.state, t.entered_at, t.exited_at, t.order_id, t.created_at,
       e.id, e.name, e.organizer_id, e.starts_at, e.capacity, e.sold_count,
       e.unit_price_minor, e.requires_academic_info, e.exit_tracking, e.created_at
FROM tickets t
JOIN events e ON e.id = t.event_id
WHERE t.code = $1`

	var (
		t     domain.Ticket
		e     domain.Event
		state string
	)
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&t.ID, &t.EventID, &t.OwnerID, &t.HolderName, &t.Code, &t.SelectedList,
		&state, &t.EnteredAt, &t.ExitedAt, &t.OrderID, &t.CreatedAt,
		&e.ID, &e.Name, &e.OrganizerID, &e.StartsAt, &e.Capacity, &e.SoldCount,
		&e.UnitPriceMinorUnits, &e.RequiresAcademicInfo, &e.ExitTracking, &e.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Ticket{}, domain.Event{}, domain.ErrInvalidTicket
		}
		return domain.Ticket{}, domain.Event{}, fmt.Errorf("get ticket by code: %w", err)
	}
	t.State = domain.TicketState(state)
	return t, e, nil
}

func (r *TicketRepository) TransitionState(ctx context.Context, ticketID string, from, to domain.TicketState, at time.Time) (bool, error) {
	// Compare-and-set on the current state: of two scanners racing on the
	// same code exactly one update matches the WHERE clause.
	var stmt string
	switch to {
	case domain.TicketStateEntered:
		stmt = `UPDATE tickets SET state = $3, entered_at = $4 WHERE id = $1 AND state = $2`
	case domain.TicketStateCompleted:
		stmt = `UPDATE tickets SET state = $3, exited_at = $4 WHERE id = $1 AND state = $2`
	default:
		return false, fmt.Errorf("transition to %q not allowed", to)
	}

	tag, err := r.pool.Exec(ctx, stmt, ticketID, from, to, at)
	if err != nil {
		return false, fmt.Errorf("transition ticket state: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
