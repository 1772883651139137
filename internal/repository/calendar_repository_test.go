package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/models"
)

func newCalendarMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestCalendarRepositoryCreateEvent(t *testing.T) {
	db, mock, cleanup := newCalendarMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO calendar_events").
		WithArgs(int64(7), "Consultation", nil, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), now))

	event := &models.CalendarEvent{
		ProviderID: 7,
		Title:      "Consultation",
		StartTime:  start,
		EndTime:    end,
	}
	err := repo.CreateEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, int64(42), event.ID)
	assert.Equal(t, models.EventStatusAvailable, event.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalendarRepositoryBook(t *testing.T) {
	db, mock, cleanup := newCalendarMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE calendar_events SET customer_id = $2, status = 'booked'")).
		WithArgs(int64(42), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	booked, err := repo.Book(context.Background(), 42, 5)
	require.NoError(t, err)
	assert.True(t, booked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalendarRepositoryBookAlreadyTaken(t *testing.T) {
	db, mock, cleanup := newCalendarMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	// A slot already booked (or cancelled) fails the status predicate and
	// leaves zero rows affected.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE calendar_events SET customer_id = $2, status = 'booked'")).
		WithArgs(int64(42), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	booked, err := repo.Book(context.Background(), 42, 5)
	require.NoError(t, err)
	assert.False(t, booked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalendarRepositoryCancel(t *testing.T) {
	db, mock, cleanup := newCalendarMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE calendar_events SET status = 'cancelled'")).
		WithArgs(int64(42), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	cancelled, err := repo.Cancel(context.Background(), 42, 7)
	require.NoError(t, err)
	assert.True(t, cancelled)

	// A requester who is neither the provider nor the customer matches no row.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE calendar_events SET status = 'cancelled'")).
		WithArgs(int64(42), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	cancelled, err = repo.Cancel(context.Background(), 42, 99)
	require.NoError(t, err)
	assert.False(t, cancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalendarRepositoryListEventsInRange(t *testing.T) {
	db, mock, cleanup := newCalendarMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	now := time.Now()
	customerName := "Dana"

	rows := sqlmock.NewRows([]string{
		"id", "provider_id", "customer_id", "title", "description",
		"start_time", "end_time", "status", "created_at", "provider_name", "customer_name",
	}).
		AddRow(int64(1), int64(7), int64(5), "Consultation", nil,
			from.Add(9*time.Hour), from.Add(10*time.Hour), "booked", now, "Pat", customerName).
		AddRow(int64(2), int64(7), nil, "Open slot", nil,
			from.Add(11*time.Hour), from.Add(12*time.Hour), "available", now, "Pat", nil)

	mock.ExpectQuery("SELECT ce.id, ce.provider_id, ce.customer_id").
		WithArgs(int64(7), from, to).
		WillReturnRows(rows)

	events, err := repo.ListEventsInRange(context.Background(), 7, from, to)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventStatusBooked, events[0].Status)
	require.NotNil(t, events[0].CustomerName)
	assert.Equal(t, "Dana", *events[0].CustomerName)
	assert.Nil(t, events[1].CustomerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalendarRepositoryFindEventByIDNotFound(t *testing.T) {
	db, mock, cleanup := newCalendarMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	mock.ExpectQuery("SELECT id, provider_id, customer_id").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindEventByID(context.Background(), 404)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
