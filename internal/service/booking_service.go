package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/models"
	appErrors "github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/errors"
)

type calendarStore interface {
	CreateEvent(ctx context.Context, event *models.CalendarEvent) error
	ListEventsInRange(ctx context.Context, providerID int64, from, to time.Time) ([]models.CalendarEventDetail, error)
	FindEventByID(ctx context.Context, id int64) (*models.CalendarEvent, error)
	Book(ctx context.Context, eventID, customerID int64) (bool, error)
	Cancel(ctx context.Context, eventID, requesterID int64) (bool, error)
}

// BookingService owns the slot lifecycle:
//
//	available --book--> booked --cancel--> cancelled
//	available --cancel (provider unpublish)--> cancelled
//	booked --external completion--> completed
//
// Booking correctness is delegated entirely to the store's conditional
// update; the service never checks the status before writing.
type BookingService struct {
	store     calendarStore
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookingService constructs a BookingService.
func NewBookingService(store calendarStore, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BookingService{store: store, metrics: metrics, validator: validate, logger: logger}
}

// CreateSlot validates the time range and persists a new available slot,
// returning the stored event with its generated id.
func (s *BookingService) CreateSlot(ctx context.Context, providerID int64, req models.CreateSlotRequest) (*models.CalendarEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	if !req.StartTime.Before(req.EndTime) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time")
	}

	event := &models.CalendarEvent{
		ProviderID: providerID,
		Title:      req.Title,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	if req.Description != "" {
		event.Description = &req.Description
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create slot")
	}

	s.logger.Info("slot created",
		zap.Int64("event_id", event.ID),
		zap.Int64("provider_id", providerID),
		zap.Time("start_time", event.StartTime))
	return event, nil
}

// ListEvents returns the provider's slots fully contained in [from, to].
func (s *BookingService) ListEvents(ctx context.Context, providerID int64, from, to time.Time) ([]models.CalendarEventDetail, error) {
	if !from.Before(to) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "range start must be before range end")
	}
	events, err := s.store.ListEventsInRange(ctx, providerID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch calendar events")
	}
	if events == nil {
		events = []models.CalendarEventDetail{}
	}
	return events, nil
}

// GetEvent returns a single slot by id.
func (s *BookingService) GetEvent(ctx context.Context, eventID int64) (*models.CalendarEvent, error) {
	event, err := s.store.FindEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch slot")
	}
	return event, nil
}

// BookSlot performs the atomic available-to-booked transition. Under
// concurrent callers racing for the same slot exactly one wins; everyone
// else gets ErrSlotUnavailable, as does any caller targeting a slot that is
// missing, booked, cancelled or completed.
func (s *BookingService) BookSlot(ctx context.Context, eventID, customerID int64) error {
	booked, err := s.store.Book(ctx, eventID, customerID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to book slot")
	}
	if !booked {
		s.metrics.RecordBookingOutcome(BookingOutcomeConflict)
		return appErrors.ErrSlotUnavailable
	}

	s.metrics.RecordBookingOutcome(BookingOutcomeConfirmed)
	s.logger.Info("slot booked",
		zap.Int64("event_id", eventID),
		zap.Int64("customer_id", customerID))
	return nil
}

// CancelSlot cancels a slot on behalf of its provider or booked customer.
// "Not found" and "not yours" are deliberately indistinguishable so callers
// cannot probe for other users' slots. Cancelling an already-cancelled slot
// succeeds idempotently; completed slots cannot be cancelled.
func (s *BookingService) CancelSlot(ctx context.Context, eventID, requesterID int64) error {
	cancelled, err := s.store.Cancel(ctx, eventID, requesterID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel slot")
	}
	if !cancelled {
		return appErrors.ErrSlotNotOwned
	}

	s.logger.Info("slot cancelled",
		zap.Int64("event_id", eventID),
		zap.Int64("requester_id", requesterID))
	return nil
}
