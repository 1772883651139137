package models

import "time"

// EventStatus tracks the lifecycle of a bookable calendar slot.
type EventStatus string

const (
	EventStatusAvailable EventStatus = "available"
	EventStatusBooked    EventStatus = "booked"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// CalendarEvent is a concrete bookable time slot owned by a provider.
// CustomerID stays set after cancellation so booking history is retained.
type CalendarEvent struct {
	ID          int64       `db:"id" json:"id"`
	ProviderID  int64       `db:"provider_id" json:"provider_id"`
	CustomerID  *int64      `db:"customer_id" json:"customer_id,omitempty"`
	Title       string      `db:"title" json:"title"`
	Description *string     `db:"description" json:"description,omitempty"`
	StartTime   time.Time   `db:"start_time" json:"start_time"`
	EndTime     time.Time   `db:"end_time" json:"end_time"`
	Status      EventStatus `db:"status" json:"status"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}

// CalendarEventDetail enriches an event with display names for listings.
type CalendarEventDetail struct {
	CalendarEvent
	ProviderName string  `db:"provider_name" json:"provider_name"`
	CustomerName *string `db:"customer_name" json:"customer_name,omitempty"`
}

// CreateSlotRequest creates a new available slot for the authenticated provider.
type CreateSlotRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
}

// EventRange bounds a calendar listing. Only events fully contained in the
// range are returned.
type EventRange struct {
	Start time.Time
	End   time.Time
}
