package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pickup-route-service/internal/domain"
	"pickup-route-service/internal/ports"
)

// Postgres-backed implementation of the RouteRepository port.
type PostgresRouteRepository struct{ DB *sql.DB }

var _ ports.RouteRepository = (*PostgresRouteRepository)(nil)

func NewPostgresRouteRepository(db *sql.DB) *PostgresRouteRepository {
	return &PostgresRouteRepository{DB: db}
}

func (s *PostgresRouteRepository) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	if s.DB == nil {
		return nil, errors.New("route repository: DB is nil")
	}

	query := `
	SELECT
		id,
		vehicle_id,
		route_data,
		total_distance,
		total_duration,
		created_at
	FROM routes
	ORDER BY created_at DESC;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list routes: query routes table: %w", err)
	}
	defer rows.Close()

	routes := make([]domain.Route, 0, 16)
	for rows.Next() {
		var r domain.Route
		var vehicleID sql.NullString
		var data []byte
		err := rows.Scan(&r.ID, &vehicleID, &data,
			&r.TotalDistance, &r.TotalDuration, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("list routes: scan row: %w", err)
		}
		if vehicleID.Valid {
			r.VehicleID = &vehicleID.String
		}
		r.RouteData = json.RawMessage(data)
		routes = append(routes, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}

	return routes, nil
}

func (s *PostgresRouteRepository) InsertRoute(ctx context.Context, r domain.Route) (domain.Route, error) {
	if s.DB == nil {
		return domain.Route{}, errors.New("route repository: DB is nil")
	}

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if len(r.RouteData) == 0 {
		r.RouteData = json.RawMessage("{}")
	}

	var vehicleID sql.NullString
	if r.VehicleID != nil {
		vehicleID = sql.NullString{String: *r.VehicleID, Valid: true}
	}

	query := `
	INSERT INTO routes (id, vehicle_id, route_data, total_distance, total_duration, created_at)
	VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := s.DB.ExecContext(ctx, query,
		r.ID, vehicleID, string(r.RouteData), r.TotalDistance, r.TotalDuration, r.CreatedAt)
	if err != nil {
		return domain.Route{}, fmt.Errorf("insert route: exec: %w", err)
	}

	return r, nil
}

func (s *PostgresRouteRepository) DeleteAllRoutes(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("route repository: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM routes;`); err != nil {
		return fmt.Errorf("delete all routes: exec: %w", err)
	}

	return nil
}
