package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema creation runs once at startup, outside the request path. Every
// statement is idempotent so repeated boots are safe.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		user_type TEXT NOT NULL CHECK (user_type IN ('customer', 'contractor', 'freelancer')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS service_providers (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		service_type TEXT NOT NULL,
		experience INT NOT NULL,
		price_range TEXT,
		description TEXT,
		rating NUMERIC(3,2) NOT NULL DEFAULT 0,
		projects_completed INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS portfolio_images (
		id BIGSERIAL PRIMARY KEY,
		provider_id BIGINT NOT NULL REFERENCES service_providers(id),
		image_url TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		sender_id BIGINT NOT NULL REFERENCES users(id),
		receiver_id BIGINT NOT NULL REFERENCES users(id),
		message TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS calendar_events (
		id BIGSERIAL PRIMARY KEY,
		provider_id BIGINT NOT NULL REFERENCES users(id),
		customer_id BIGINT REFERENCES users(id),
		title TEXT NOT NULL,
		description TEXT,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL DEFAULT 'available'
			CHECK (status IN ('available', 'booked', 'completed', 'cancelled')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (start_time < end_time)
	)`,
	`CREATE TABLE IF NOT EXISTS provider_availability (
		id BIGSERIAL PRIMARY KEY,
		provider_id BIGINT NOT NULL REFERENCES users(id),
		day_of_week SMALLINT NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id TEXT PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		token TEXT UNIQUE NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		revoked BOOLEAN NOT NULL DEFAULT FALSE,
		revoked_at TIMESTAMPTZ,
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_calendar_events_provider_start
		ON calendar_events (provider_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_provider_availability_provider
		ON provider_availability (provider_id, day_of_week, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_participants
		ON messages (sender_id, receiver_id, created_at)`,
}

// EnsureSchema creates all tables and indexes if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
