package ports

import (
	"context"
	"errors"

	"pickup-route-service/internal/domain"
)

// Returned by repositories when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Port: a boundary for storing and retrieving PickupPoint entities.
type PickupPointRepository interface {
	// Retrieve all pickup points in insertion order.
	ListPickupPoints(ctx context.Context) ([]domain.PickupPoint, error)
	// Store a new pickup point. An empty id is assigned by the repository.
	CreatePickupPoint(ctx context.Context, p domain.PickupPoint) (domain.PickupPoint, error)
	// Update an existing pickup point by id.
	UpdatePickupPoint(ctx context.Context, p domain.PickupPoint) (domain.PickupPoint, error)
	// Delete a single pickup point by id.
	DeletePickupPoint(ctx context.Context, id string) error
	// Delete every pickup point (bulk clear before a replacing import).
	DeleteAllPickupPoints(ctx context.Context) error
}
