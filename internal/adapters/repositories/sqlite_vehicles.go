package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"pickup-route-service/internal/domain"
	"pickup-route-service/internal/ports"
)

// SQLite-backed implementation of the VehicleRepository port.
type SqliteVehicleRepository struct{ DB *sql.DB }

var _ ports.VehicleRepository = (*SqliteVehicleRepository)(nil)

func NewSqliteVehicleRepository(db *sql.DB) *SqliteVehicleRepository {
	return &SqliteVehicleRepository{DB: db}
}

func (s *SqliteVehicleRepository) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("vehicle repository: DB is nil")
	}

	query := `
	SELECT
		id,
		name,
		capacity,
		max_distance_km,
		start_lon,
		start_lat,
		end_lon,
		end_lat
	FROM vehicles
	ORDER BY rowid;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]domain.Vehicle, 0, 16)
	for rows.Next() {
		var v domain.Vehicle
		var startLon, startLat, endLon, endLat sql.NullFloat64
		err := rows.Scan(&v.ID, &v.Name, &v.Capacity, &v.MaxDistanceKm,
			&startLon, &startLat, &endLon, &endLat)
		if err != nil {
			return nil, fmt.Errorf("list vehicles: scan row: %w", err)
		}
		v.StartLocation = coordsFromNull(startLon, startLat)
		v.EndLocation = coordsFromNull(endLon, endLat)
		vehicles = append(vehicles, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}

func (s *SqliteVehicleRepository) CreateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	if s.DB == nil {
		return domain.Vehicle{}, errors.New("vehicle repository: DB is nil")
	}

	if v.ID == "" {
		v.ID = uuid.NewString()
	}

	startLon, startLat := nullCoords(v.StartLocation)
	endLon, endLat := nullCoords(v.EndLocation)

	query := `
	INSERT INTO vehicles (id, name, capacity, max_distance_km, start_lon, start_lat, end_lon, end_lat)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err := s.DB.ExecContext(ctx, query,
		v.ID, v.Name, v.Capacity, v.MaxDistanceKm, startLon, startLat, endLon, endLat)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("create vehicle: insert: %w", err)
	}

	return v, nil
}

func (s *SqliteVehicleRepository) UpdateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	if s.DB == nil {
		return domain.Vehicle{}, errors.New("vehicle repository: DB is nil")
	}

	startLon, startLat := nullCoords(v.StartLocation)
	endLon, endLat := nullCoords(v.EndLocation)

	query := `
	UPDATE vehicles
	SET name = ?, capacity = ?, max_distance_km = ?,
		start_lon = ?, start_lat = ?, end_lon = ?, end_lat = ?
	WHERE id = ?;
	`
	res, err := s.DB.ExecContext(ctx, query,
		v.Name, v.Capacity, v.MaxDistanceKm, startLon, startLat, endLon, endLat, v.ID)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("update vehicle: exec: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("update vehicle: rows affected: %w", err)
	}
	if affected == 0 {
		return domain.Vehicle{}, ports.ErrNotFound
	}

	return v, nil
}

func (s *SqliteVehicleRepository) DeleteVehicle(ctx context.Context, id string) error {
	if s.DB == nil {
		return errors.New("vehicle repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: exec: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vehicle: rows affected: %w", err)
	}
	if affected == 0 {
		return ports.ErrNotFound
	}

	return nil
}
