package ports

import (
	"context"

	"pickup-route-service/internal/domain"
)

// Port: a boundary for the persisted route cache.
//
// The route table holds at most one run's worth of routes: reconciliation
// deletes everything and re-inserts the latest solution. Inserts for distinct
// vehicles are independent and may be issued concurrently.
type RouteRepository interface {
	// Retrieve the routes of the most recent reconciled run, newest first.
	ListRoutes(ctx context.Context) ([]domain.Route, error)
	// Store one route. An empty id is assigned by the repository.
	InsertRoute(ctx context.Context, r domain.Route) (domain.Route, error)
	// Delete every persisted route (replace semantics before re-insert).
	DeleteAllRoutes(ctx context.Context) error
}
