package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tonymorry/uniparty/internal/domain"
)

// FulfillmentRepository carries the materialization transaction: order and
// event rows are locked FOR UPDATE so concurrent confirmations for the same
// event serialize on the capacity row.
type FulfillmentRepository struct {
	pool *pgxpool.Pool
}

func NewFulfillmentRepository(pool *pgxpool.Pool) *FulfillmentRepository {
	return &FulfillmentRepository{pool: pool}
}

func (r *FulfillmentRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *FulfillmentRepository) GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error) {
	const query = `
SELECT id, buyer_id, event_id, quantity, holder_names, holder_faculties,
       selected_list, total_amount_minor, status, external_session_ref, created_at
FROM orders
WHERE id = $1
FOR UPDATE`

	order, err := scanOrder(r.queryRow(ctx, query, orderID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order for update: %w", err)
	}
	return order, nil
}

func (r *FulfillmentRepository) GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error) {
	const query = `
SELECT id, name, organizer_id, starts_at, capacity, sold_count, unit_price_minor,
       requires_academic_info, exit_tracking, created_at
FROM events
WHERE id = $1
FOR UPDATE`

	var e domain.Event
	err := r.queryRow(ctx, query, eventID).Scan(
		&e.ID, &e.Name, &e.OrganizerID, &e.StartsAt, &e.Capacity, &e.SoldCount,
		&e.UnitPriceMinorUnits, &e.RequiresAcademicInfo, &e.ExitTracking, &e.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event for update: %w", err)
	}
	return e, nil
}

func (r *FulfillmentRepository) IncrementSoldCount(ctx context.Context, eventID string, by int) error {
	const stmt = `UPDATE events SET sold_count = sold_count + $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, eventID, by)
	if err != nil {
		// The sold_count <= capacity check constraint is the last line of
		// defense; the service re-checks before incrementing.
		if isCheckViolation(err) {
			return domain.ErrCapacityExceeded
		}
		return fmt.Errorf("increment sold count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *FulfillmentRepository) CreateTicket(ctx context.Context, ticket domain.Ticket) error {
	const stmt = `
INSERT INTO tickets (id, event_id, owner_id, holder_name, code, selected_list,
                     state, order_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.exec(ctx, stmt,
		ticket.ID,
		ticket.EventID,
		ticket.OwnerID,
		ticket.HolderName,
		ticket.Code,
		ticket.SelectedList,
		ticket.State,
		ticket.OrderID,
		ticket.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Astronomically unlikely code collision. Roll back and let the
			// provider's redelivery retry with fresh codes.
			return fmt.Errorf("ticket code collision: %w", err)
		}
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func (r *FulfillmentRepository) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	const stmt = `UPDATE orders SET status = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, orderID, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *FulfillmentRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *FulfillmentRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
