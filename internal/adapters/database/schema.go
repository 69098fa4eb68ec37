package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/homeflow/internal/infrastructure/clients/postgres"
)

// schema is applied in order; every statement is idempotent
var schema = []string{
	`CREATE TABLE IF NOT EXISTS services (
		id                   BIGSERIAL PRIMARY KEY,
		slug                 TEXT NOT NULL UNIQUE,
		title                TEXT NOT NULL,
		description          TEXT NOT NULL DEFAULT '',
		default_price_low    DOUBLE PRECISION NOT NULL,
		default_price_high   DOUBLE PRECISION NOT NULL,
		default_working_days INTEGER[] NOT NULL DEFAULT '{}',
		default_radius_km    DOUBLE PRECISION NOT NULL,
		created_at           TIMESTAMPTZ NOT NULL,
		updated_at           TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pros (
		id                BIGSERIAL PRIMARY KEY,
		slug              TEXT NOT NULL UNIQUE,
		service_id        BIGINT NOT NULL REFERENCES services(id),
		name              TEXT NOT NULL,
		image             TEXT NOT NULL DEFAULT '',
		image_alt         TEXT NOT NULL DEFAULT '',
		rating            DOUBLE PRECISION,
		reviews_count     INTEGER NOT NULL DEFAULT 0,
		price_from        DOUBLE PRECISION,
		currency          TEXT NOT NULL,
		latitude          DOUBLE PRECISION NOT NULL,
		longitude         DOUBLE PRECISION NOT NULL,
		service_radius_km DOUBLE PRECISION NOT NULL,
		working_days      INTEGER[] NOT NULL DEFAULT '{}',
		base_quote_low    DOUBLE PRECISION NOT NULL,
		base_quote_high   DOUBLE PRECISION NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL,
		updated_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pros_service_id ON pros(service_id)`,
	`CREATE TABLE IF NOT EXISTS pro_time_windows (
		pro_id     BIGINT NOT NULL REFERENCES pros(id) ON DELETE CASCADE,
		position   INTEGER NOT NULL,
		start_time TEXT NOT NULL,
		end_time   TEXT NOT NULL,
		PRIMARY KEY (pro_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS pro_badges (
		pro_id   BIGINT NOT NULL REFERENCES pros(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		label    TEXT NOT NULL,
		PRIMARY KEY (pro_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS pro_extras (
		pro_id BIGINT NOT NULL REFERENCES pros(id) ON DELETE CASCADE,
		name   TEXT NOT NULL,
		price  DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (pro_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS quotes (
		id                   TEXT PRIMARY KEY,
		service_id           BIGINT NOT NULL REFERENCES services(id),
		pro_id               BIGINT REFERENCES pros(id),
		currency             TEXT NOT NULL,
		estimate_low         DOUBLE PRECISION NOT NULL,
		estimate_high        DOUBLE PRECISION NOT NULL,
		expires_at           TIMESTAMPTZ NOT NULL,
		suggested_date_start TIMESTAMPTZ NOT NULL,
		suggested_date_end   TIMESTAMPTZ NOT NULL,
		details              JSONB,
		created_at           TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id                  BIGSERIAL PRIMARY KEY,
		pro_id              BIGINT NOT NULL REFERENCES pros(id),
		service_id          BIGINT NOT NULL REFERENCES services(id),
		user_id             BIGINT,
		quote_id            TEXT REFERENCES quotes(id),
		start_at            TIMESTAMPTZ NOT NULL,
		end_at              TIMESTAMPTZ NOT NULL,
		status              TEXT NOT NULL,
		price_estimate      DOUBLE PRECISION NOT NULL,
		address             JSONB NOT NULL,
		instructions        TEXT,
		rating              DOUBLE PRECISION,
		review_text         TEXT,
		cancellation_reason TEXT,
		created_at          TIMESTAMPTZ NOT NULL,
		updated_at          TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_start_at ON bookings(start_at)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_updated_at ON bookings(updated_at)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id         BIGSERIAL PRIMARY KEY,
		pro_id     BIGINT NOT NULL REFERENCES pros(id),
		booking_id BIGINT UNIQUE REFERENCES bookings(id),
		user_id    BIGINT,
		rating     DOUBLE PRECISION NOT NULL,
		review     TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_pro_created ON reviews(pro_id, created_at DESC)`,
}

// Migrate creates the HomeFlow tables when they do not exist
func Migrate(ctx context.Context, client *postgres.Client) error {
	for i, stmt := range schema {
		if _, err := client.DB().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	log.Info().Int("statements", len(schema)).Msg("Database schema is up to date")
	return nil
}

// IsEmpty reports whether the service catalogue has no rows yet
func IsEmpty(ctx context.Context, client *postgres.Client) (bool, error) {
	var count int
	if err := client.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM services`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count services: %w", err)
	}
	return count == 0, nil
}
