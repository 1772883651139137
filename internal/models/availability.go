package models

// AvailabilityWindow is a recurring weekly time range template for a
// provider. Day 0 is Sunday, 6 is Saturday. Times are HH:MM in the
// provider's local timezone.
type AvailabilityWindow struct {
	ID         int64  `db:"id" json:"id"`
	ProviderID int64  `db:"provider_id" json:"provider_id"`
	DayOfWeek  int    `db:"day_of_week" json:"day_of_week"`
	StartTime  string `db:"start_time" json:"start_time"`
	EndTime    string `db:"end_time" json:"end_time"`
}

// AvailabilityInput is one window in a replace request.
type AvailabilityInput struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// SetAvailabilityRequest replaces the caller's weekly schedule wholesale.
// An empty schedule clears all windows.
type SetAvailabilityRequest struct {
	AvailabilitySchedule []AvailabilityInput `json:"availability_schedule" validate:"dive"`
}
