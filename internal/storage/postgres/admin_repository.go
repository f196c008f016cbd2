package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tonymorry/uniparty/internal/domain"
)

type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, name, organizer_id, starts_at, capacity, sold_count,
                    unit_price_minor, requires_academic_info, exit_tracking, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, stmt,
		event.ID,
		event.Name,
		event.OrganizerID,
		event.StartsAt,
		event.Capacity,
		event.SoldCount,
		event.UnitPriceMinorUnits,
		event.RequiresAcademicInfo,
		event.ExitTracking,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *AdminRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	const query = `
SELECT id, name, organizer_id, starts_at, capacity, sold_count, unit_price_minor,
       requires_academic_info, exit_tracking, created_at
FROM events
ORDER BY starts_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(
			&e.ID, &e.Name, &e.OrganizerID, &e.StartsAt, &e.Capacity, &e.SoldCount,
			&e.UnitPriceMinorUnits, &e.RequiresAcademicInfo, &e.ExitTracking, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (r *AdminRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	const query = `
SELECT id, name, organizer_id, starts_at, capacity, sold_count, unit_price_minor,
       requires_academic_info, exit_tracking, created_at
FROM events
WHERE id = $1`

	var e domain.Event
	err := r.pool.QueryRow(ctx, query, eventID).Scan(
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
