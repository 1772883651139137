package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/models"
)

// CalendarRepository stores bookable calendar slots. Booking and cancellation
// are conditional single-statement updates; the WHERE clause is the
// concurrency guard, so no row is ever read before being written.
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository creates a new instance of CalendarRepository.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// CreateEvent inserts a new slot in 'available' status and writes the
// generated id back onto the event.
func (r *CalendarRepository) CreateEvent(ctx context.Context, event *models.CalendarEvent) error {
	const query = `INSERT INTO calendar_events (provider_id, title, description, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, 'available') RETURNING id, created_at`
	if err := r.db.QueryRowContext(ctx, query,
		event.ProviderID, event.Title, event.Description, event.StartTime, event.EndTime).
		Scan(&event.ID, &event.CreatedAt); err != nil {
		return fmt.Errorf("create calendar event: %w", err)
	}
	event.Status = models.EventStatusAvailable
	return nil
}

// ListEventsInRange returns a provider's events fully contained in the
// range, enriched with provider and customer display names.
func (r *CalendarRepository) ListEventsInRange(ctx context.Context, providerID int64, from, to time.Time) ([]models.CalendarEventDetail, error) {
	const query = `SELECT ce.id, ce.provider_id, ce.customer_id, ce.title, ce.description,
			ce.start_time, ce.end_time, ce.status, ce.created_at,
			u1.name AS provider_name, u2.name AS customer_name
		FROM calendar_events ce
		LEFT JOIN users u1 ON ce.provider_id = u1.id
		LEFT JOIN users u2 ON ce.customer_id = u2.id
		WHERE ce.provider_id = $1 AND ce.start_time >= $2 AND ce.end_time <= $3
		ORDER BY ce.start_time ASC`
	var events []models.CalendarEventDetail
	if err := r.db.SelectContext(ctx, &events, query, providerID, from, to); err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	return events, nil
}

// FindEventByID returns the event or sql.ErrNoRows.
func (r *CalendarRepository) FindEventByID(ctx context.Context, id int64) (*models.CalendarEvent, error) {
	const query = `SELECT id, provider_id, customer_id, title, description, start_time, end_time, status, created_at
		FROM calendar_events WHERE id = $1 LIMIT 1`
	var event models.CalendarEvent
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find calendar event: %w", err)
	}
	return &event, nil
}

// Book atomically assigns the customer and flips the slot to 'booked'. The
// status predicate makes the update a compare-and-swap: under concurrent
// bookings exactly one caller sees a row affected. Returns false when the
// slot does not exist or is not available.
func (r *CalendarRepository) Book(ctx context.Context, eventID, customerID int64) (bool, error) {
	const query = `UPDATE calendar_events SET customer_id = $2, status = 'booked'
		WHERE id = $1 AND status = 'available'`
	res, err := r.db.ExecContext(ctx, query, eventID, customerID)
	if err != nil {
		return false, fmt.Errorf("book calendar event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("book rows affected: %w", err)
	}
	return affected > 0, nil
}

// Cancel flips the slot to 'cancelled' when the requester is the owning
// provider or the booked customer. Completed slots never match. The customer
// reference is kept for history. Returns false when no row matched, which
// covers both "not found" and "not yours".
func (r *CalendarRepository) Cancel(ctx context.Context, eventID, requesterID int64) (bool, error) {
	const query = `UPDATE calendar_events SET status = 'cancelled'
		WHERE id = $1 AND (provider_id = $2 OR customer_id = $2) AND status <> 'completed'`
	res, err := r.db.ExecContext(ctx, query, eventID, requesterID)
	if err != nil {
		return false, fmt.Errorf("cancel calendar event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("cancel rows affected: %w", err)
	}
	return affected > 0, nil
}
