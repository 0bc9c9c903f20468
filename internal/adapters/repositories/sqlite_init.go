package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite database schema. Insertion order is preserved by the
// implicit rowid; list queries order on it.
func InitSQLiteSchema(db *sql.DB) error {
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
		name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		capacity INTEGER NOT NULL,
		max_distance_km REAL NOT NULL DEFAULT 0,
		start_lon REAL,
		start_lat REAL,
		end_lon REAL,
		end_lat REAL
	);
	`

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		id TEXT PRIMARY KEY,
		vehicle_id TEXT,
		route_data TEXT NOT NULL,
		total_distance REAL NOT NULL DEFAULT 0,
		total_duration REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
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
