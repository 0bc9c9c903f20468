package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the postgres database schema.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPickupPointsQuery := `
	CREATE TABLE IF NOT EXISTS pickup_points (
		id TEXT PRIMARY KEY,
		seq BIGSERIAL,
		name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		seq BIGSERIAL,
		name TEXT NOT NULL DEFAULT '',
		capacity INTEGER NOT NULL,
		max_distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
		start_lon DOUBLE PRECISION,
		start_lat DOUBLE PRECISION,
		end_lon DOUBLE PRECISION,
		end_lat DOUBLE PRECISION
	);
	`

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		id TEXT PRIMARY KEY,
		vehicle_id TEXT,
		route_data TEXT NOT NULL,
		total_distance DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_duration DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createRoutesIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_routes_created_at
	ON routes(created_at DESC);
	`

	statements := []string{
		createPickupPointsQuery,
		createVehiclesQuery,
		createRoutesQuery,
		createRoutesIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
