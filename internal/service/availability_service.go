package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/models"
	appErrors "github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/errors"
)

const windowTimeLayout = "15:04"

type availabilityStore interface {
	Replace(ctx context.Context, providerID int64, windows []models.AvailabilityInput) error
	ListByProvider(ctx context.Context, providerID int64) ([]models.AvailabilityWindow, error)
}

// AvailabilityService manages recurring weekly availability windows. Every
// window is validated before the stored schedule is touched, so a bad
// payload can never wipe a provider's existing windows.
type AvailabilityService struct {
	store     availabilityStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(store availabilityStore, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AvailabilityService{store: store, validator: validate, logger: logger}
}

// Replace swaps the provider's weekly schedule wholesale. An empty schedule
// clears all windows and is not an error.
func (s *AvailabilityService) Replace(ctx context.Context, providerID int64, req models.SetAvailabilityRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}

	for i, w := range req.AvailabilitySchedule {
		if err := validateWindow(w); err != nil {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("window %d: %v", i, err))
		}
	}

	if err := s.store.Replace(ctx, providerID, req.AvailabilitySchedule); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update availability")
	}

	s.logger.Info("availability replaced",
		zap.Int64("provider_id", providerID),
		zap.Int("windows", len(req.AvailabilitySchedule)))
	return nil
}

// List returns the provider's windows ordered by day of week, then start time.
func (s *AvailabilityService) List(ctx context.Context, providerID int64) ([]models.AvailabilityWindow, error) {
	windows, err := s.store.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch availability")
	}
	if windows == nil {
		windows = []models.AvailabilityWindow{}
	}
	return windows, nil
}

func validateWindow(w models.AvailabilityInput) error {
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return fmt.Errorf("day_of_week %d out of range 0-6", w.DayOfWeek)
	}
	start, err := time.Parse(windowTimeLayout, w.StartTime)
	if err != nil {
		return fmt.Errorf("start_time %q is not HH:MM", w.StartTime)
	}
	end, err := time.Parse(windowTimeLayout, w.EndTime)
	if err != nil {
		return fmt.Errorf("end_time %q is not HH:MM", w.EndTime)
	}
	if !start.Before(end) {
		return fmt.Errorf("start_time %s must be before end_time %s", w.StartTime, w.EndTime)
	}
	return nil
}
