package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/models"
)

// AvailabilityRepository stores recurring weekly availability windows.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository creates a new instance of AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// Replace swaps a provider's whole weekly schedule in one transaction so
// concurrent readers never observe a half-replaced schedule and a failed
// insert cannot leave the provider with zero windows.
func (r *AvailabilityRepository) Replace(ctx context.Context, providerID int64, windows []models.AvailabilityInput) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace availability: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM provider_availability WHERE provider_id = $1`, providerID); err != nil {
		return fmt.Errorf("delete availability: %w", err)
	}

	const insert = `INSERT INTO provider_availability (provider_id, day_of_week, start_time, end_time)
		VALUES ($1, $2, $3, $4)`
	for _, w := range windows {
		if _, err := tx.ExecContext(ctx, insert, providerID, w.DayOfWeek, w.StartTime, w.EndTime); err != nil {
			return fmt.Errorf("insert availability window: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace availability: %w", err)
	}
	return nil
}

// ListByProvider returns windows ordered by day of week, then start time.
// No windows is an empty slice, not an error.
func (r *AvailabilityRepository) ListByProvider(ctx context.Context, providerID int64) ([]models.AvailabilityWindow, error) {
	const query = `SELECT id, provider_id, day_of_week, start_time, end_time FROM provider_availability
		WHERE provider_id = $1 ORDER BY day_of_week ASC, start_time ASC`
	var windows []models.AvailabilityWindow
	if err := r.db.SelectContext(ctx, &windows, query, providerID); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return windows, nil
}
