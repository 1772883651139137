package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/models"
	appErrors "github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/errors"
)

type mockAvailabilityStore struct {
	windows     map[int64][]models.AvailabilityInput
	replaceErr  error
	listResult  []models.AvailabilityWindow
	listErr     error
	replaceHits int
}

func (m *mockAvailabilityStore) Replace(ctx context.Context, providerID int64, windows []models.AvailabilityInput) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	if m.windows == nil {
		m.windows = make(map[int64][]models.AvailabilityInput)
	}
	m.windows[providerID] = windows
	m.replaceHits++
	return nil
}

func (m *mockAvailabilityStore) ListByProvider(ctx context.Context, providerID int64) ([]models.AvailabilityWindow, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listResult, nil
}

func TestAvailabilityServiceReplace(t *testing.T) {
	store := &mockAvailabilityStore{}
	svc := NewAvailabilityService(store, nil, nil)

	err := svc.Replace(context.Background(), 7, models.SetAvailabilityRequest{
		AvailabilitySchedule: []models.AvailabilityInput{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
			{DayOfWeek: 5, StartTime: "10:00", EndTime: "14:00"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, store.windows[7], 2)
}

func TestAvailabilityServiceReplaceEmptyClears(t *testing.T) {
	store := &mockAvailabilityStore{}
	svc := NewAvailabilityService(store, nil, nil)

	err := svc.Replace(context.Background(), 7, models.SetAvailabilityRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, store.replaceHits)
	assert.Empty(t, store.windows[7])
}

func TestAvailabilityServiceReplaceRejectsBadWindows(t *testing.T) {
	store := &mockAvailabilityStore{}
	svc := NewAvailabilityService(store, nil, nil)

	cases := []struct {
		name   string
		window models.AvailabilityInput
	}{
		{"day out of range", models.AvailabilityInput{DayOfWeek: 7, StartTime: "09:00", EndTime: "17:00"}},
		{"malformed start", models.AvailabilityInput{DayOfWeek: 1, StartTime: "9am", EndTime: "17:00"}},
		{"malformed end", models.AvailabilityInput{DayOfWeek: 1, StartTime: "09:00", EndTime: "25:00"}},
		{"inverted window", models.AvailabilityInput{DayOfWeek: 1, StartTime: "17:00", EndTime: "09:00"}},
		{"zero-length window", models.AvailabilityInput{DayOfWeek: 1, StartTime: "09:00", EndTime: "09:00"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Replace(context.Background(), 7, models.SetAvailabilityRequest{
				AvailabilitySchedule: []models.AvailabilityInput{tc.window},
			})
			assertErrorCode(t, err, appErrors.ErrValidation.Code)
		})
	}

	// No invalid payload ever reached the store, so the existing schedule
	// survives.
	assert.Equal(t, 0, store.replaceHits)
}

func TestAvailabilityServiceReplaceRejectsOneBadWindowAmongGood(t *testing.T) {
	store := &mockAvailabilityStore{}
	svc := NewAvailabilityService(store, nil, nil)

	err := svc.Replace(context.Background(), 7, models.SetAvailabilityRequest{
		AvailabilitySchedule: []models.AvailabilityInput{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
			{DayOfWeek: 2, StartTime: "18:00", EndTime: "08:00"},
		},
	})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
	assert.Equal(t, 0, store.replaceHits)
}

func TestAvailabilityServiceList(t *testing.T) {
	store := &mockAvailabilityStore{
		listResult: []models.AvailabilityWindow{
			{ID: 1, ProviderID: 7, DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"},
			{ID: 2, ProviderID: 7, DayOfWeek: 1, StartTime: "13:00", EndTime: "17:00"},
		},
	}
	svc := NewAvailabilityService(store, nil, nil)

	windows, err := svc.List(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, windows, 2)
}

func TestAvailabilityServiceListEmptyIsNotAnError(t *testing.T) {
	store := &mockAvailabilityStore{}
	svc := NewAvailabilityService(store, nil, nil)

	windows, err := svc.List(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, windows)
	assert.Empty(t, windows)
}
