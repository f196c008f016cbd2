package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tonymorry/uniparty/internal/domain"
)

// OrderRepository backs order intake, checkout and the retention sweep.
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	const query = `
SELECT id, name, organizer_id, starts_at, capacity, sold_count, unit_price_minor,
       requires_academic_info, exit_tracking, created_at
FROM events
WHERE id = $1`

	var e domain.Event
	err := r.queryRow(ctx, query, eventID).Scan(
		&e.ID, &e.Name, &e.OrganizerID, &e.StartsAt, &e.Capacity, &e.SoldCount,
		&e.UnitPriceMinorUnits, &e.RequiresAcademicInfo, &e.ExitTracking, &e.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const stmt = `
INSERT INTO orders (id, buyer_id, event_id, quantity, holder_names, holder_faculties,
                    selected_list, total_amount_minor, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.exec(ctx, stmt,
		order.ID,
		order.BuyerID,
		order.EventID,
		order.Quantity,
		order.HolderNames,
		order.HolderFaculties,
		order.SelectedList,
		order.TotalAmountMinorUnits,
		order.Status,
		order.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	const query = `
SELECT id, buyer_id, event_id, quantity, holder_names, holder_faculties,
       selected_list, total_amount_minor, status, external_session_ref, created_at
FROM orders
WHERE id = $1`

	order, err := scanOrder(r.queryRow(ctx, query, orderID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

func (r *OrderRepository) SetExternalSessionRef(ctx context.Context, orderID, sessionRef string) error {
	const stmt = `UPDATE orders SET external_session_ref = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, orderID, sessionRef)
	if err != nil {
		return fmt.Errorf("set session ref: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) DeleteExpiredPendingOrders(ctx context.Context, before time.Time) (int64, error) {
	const stmt = `DELETE FROM orders WHERE status = 'pending' AND created_at < $1`

	tag, err := r.exec(ctx, stmt, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired orders: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	err := row.Scan(
		&o.ID, &o.BuyerID, &o.EventID, &o.Quantity, &o.HolderNames, &o.HolderFaculties,
		&o.SelectedList, &o.TotalAmountMinorUnits, &status, &o.ExternalSessionRef, &o.CreatedAt,
	)
	if err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.OrderStatus(status)
	return o, nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
