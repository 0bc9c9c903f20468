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

// Postgres-backed implementation of the PickupPointRepository port.
type PostgresPickupPointRepository struct{ DB *sql.DB }

var _ ports.PickupPointRepository = (*PostgresPickupPointRepository)(nil)

func NewPostgresPickupPointRepository(db *sql.DB) *PostgresPickupPointRepository {
	return &PostgresPickupPointRepository{DB: db}
}

func (s *PostgresPickupPointRepository) ListPickupPoints(ctx context.Context) ([]domain.PickupPoint, error) {
	if s.DB == nil {
		return nil, errors.New("pickup point repository: DB is nil")
	}

	query := `
	SELECT
		id,
		name,
		address,
		latitude,
		longitude,
		quantity
	FROM pickup_points
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pickup points: query pickup_points table: %w", err)
	}
	defer rows.Close()

	points := make([]domain.PickupPoint, 0, 64)
	for rows.Next() {
		var p domain.PickupPoint
		err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.Latitude, &p.Longitude, &p.Quantity)
		if err != nil {
			return nil, fmt.Errorf("list pickup points: scan row: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pickup points: row iteration: %w", err)
	}

	return points, nil
}

func (s *PostgresPickupPointRepository) CreatePickupPoint(ctx context.Context, p domain.PickupPoint) (domain.PickupPoint, error) {
	if s.DB == nil {
		return domain.PickupPoint{}, errors.New("pickup point repository: DB is nil")
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	query := `
	INSERT INTO pickup_points (id, name, address, latitude, longitude, quantity)
	VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := s.DB.ExecContext(ctx, query,
		p.ID, p.Name, p.Address, p.Latitude, p.Longitude, p.Quantity)
	if err != nil {
		return domain.PickupPoint{}, fmt.Errorf("create pickup point: insert: %w", err)
	}

	return p, nil
}

func (s *PostgresPickupPointRepository) UpdatePickupPoint(ctx context.Context, p domain.PickupPoint) (domain.PickupPoint, error) {
	if s.DB == nil {
		return domain.PickupPoint{}, errors.New("pickup point repository: DB is nil")
	}

	query := `
	UPDATE pickup_points
	SET name = $2, address = $3, latitude = $4, longitude = $5, quantity = $6
	WHERE id = $1;
	`
	res, err := s.DB.ExecContext(ctx, query,
		p.ID, p.Name, p.Address, p.Latitude, p.Longitude, p.Quantity)
	if err != nil {
		return domain.PickupPoint{}, fmt.Errorf("update pickup point: exec: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.PickupPoint{}, fmt.Errorf("update pickup point: rows affected: %w", err)
	}
	if affected == 0 {
		return domain.PickupPoint{}, ports.ErrNotFound
	}

	return p, nil
}

func (s *PostgresPickupPointRepository) DeletePickupPoint(ctx context.Context, id string) error {
	if s.DB == nil {
		return errors.New("pickup point repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM pickup_points WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete pickup point: exec: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete pickup point: rows affected: %w", err)
	}
	if affected == 0 {
		return ports.ErrNotFound
	}

	return nil
}

func (s *PostgresPickupPointRepository) DeleteAllPickupPoints(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("pickup point repository: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM pickup_points;`); err != nil {
		return fmt.Errorf("delete all pickup points: exec: %w", err)
	}

	return nil
}
