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

// Postgres-backed implementation of the VehicleRepository port.
type PostgresVehicleRepository struct{ DB *sql.DB }

var _ ports.VehicleRepository = (*PostgresVehicleRepository)(nil)

func NewPostgresVehicleRepository(db *sql.DB) *PostgresVehicleRepository {
	return &PostgresVehicleRepository{DB: db}
}

// Optional coordinates map to a pair of nullable columns; a half-set pair in
// the database is treated as unset.
func nullCoords(c *domain.Coordinates) (lon, lat sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Lon, Valid: true},
		sql.NullFloat64{Float64: c.Lat, Valid: true}
}

func coordsFromNull(lon, lat sql.NullFloat64) *domain.Coordinates {
	if !lon.Valid || !lat.Valid {
		return nil
	}
	return &domain.Coordinates{Lon: lon.Float64, Lat: lat.Float64}
}

func (s *PostgresVehicleRepository) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
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
	ORDER BY seq;
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

func (s *PostgresVehicleRepository) CreateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
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
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := s.DB.ExecContext(ctx, query,
		v.ID, v.Name, v.Capacity, v.MaxDistanceKm, startLon, startLat, endLon, endLat)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("create vehicle: insert: %w", err)
	}

	return v, nil
}

func (s *PostgresVehicleRepository) UpdateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	if s.DB == nil {
		return domain.Vehicle{}, errors.New("vehicle repository: DB is nil")
	}

	startLon, startLat := nullCoords(v.StartLocation)
	endLon, endLat := nullCoords(v.EndLocation)

	query := `
	UPDATE vehicles
	SET name = $2, capacity = $3, max_distance_km = $4,
		start_lon = $5, start_lat = $6, end_lon = $7, end_lat = $8
	WHERE id = $1;
	`
	res, err := s.DB.ExecContext(ctx, query,
		v.ID, v.Name, v.Capacity, v.MaxDistanceKm, startLon, startLat, endLon, endLat)
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

func (s *PostgresVehicleRepository) DeleteVehicle(ctx context.Context, id string) error {
	if s.DB == nil {
		return errors.New("vehicle repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1;`, id)
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
