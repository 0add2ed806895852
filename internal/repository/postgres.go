package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the marketplace schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	migrations := []string{
		migrationCreateStations,
		migrationCreateBookings,
		migrationCreateUsers,
	}

	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

const migrationCreateStations = `
CREATE TABLE IF NOT EXISTS stations (
    station_id TEXT PRIMARY KEY,
    provider JSONB NOT NULL DEFAULT '{}',
    location JSONB NOT NULL DEFAULT '{}',
    charger_details JSONB NOT NULL DEFAULT '{}',
    pricing JSONB NOT NULL DEFAULT '{}',
    operating_hours JSONB NOT NULL DEFAULT '{}',
    amenities JSONB NOT NULL DEFAULT '[]',
    is_active BOOLEAN NOT NULL DEFAULT true,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_stations_is_active ON stations(is_active);
`

const migrationCreateBookings = `
CREATE TABLE IF NOT EXISTS bookings (
    booking_id TEXT PRIMARY KEY,
    transaction_id TEXT NOT NULL UNIQUE,
    station_id TEXT NOT NULL,
    user_id TEXT,
    user_details JSONB NOT NULL DEFAULT '{}',
    charging_parameters JSONB NOT NULL DEFAULT '{}',
    quote JSONB NOT NULL DEFAULT '{}',
    status TEXT NOT NULL DEFAULT 'DRAFT',
    payment_status TEXT NOT NULL DEFAULT 'PENDING',
    payment_details JSONB,
    session_start TIMESTAMP WITH TIME ZONE,
    session_end TIMESTAMP WITH TIME ZONE,
    total_energy DOUBLE PRECISION,
    final_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings(user_id);
CREATE INDEX IF NOT EXISTS idx_bookings_station_id ON bookings(station_id);
CREATE INDEX IF NOT EXISTS idx_bookings_created_at ON bookings(created_at);
`

const migrationCreateUsers = `
CREATE TABLE IF NOT EXISTS users (
    user_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    phone TEXT NOT NULL DEFAULT '',
    avatar_url TEXT NOT NULL DEFAULT '',
    address JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`
