package ports

import (
	"context"

	"pickup-route-service/internal/domain"
)

// Port: a boundary for storing and retrieving Vehicle entities.
type VehicleRepository interface {
	// Retrieve all vehicles in insertion order.
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
	// Store a new vehicle. An empty id is assigned by the repository.
	CreateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	// Update an existing vehicle by id.
	UpdateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	// Delete a single vehicle by id.
	DeleteVehicle(ctx context.Context, id string) error
}
