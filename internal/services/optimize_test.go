package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"pickup-route-service/internal/domain"
	"pickup-route-service/internal/ports"
)

func optimizeFixture(solver ports.RouteSolver) (*OptimizeService, *memRouteRepo, *memRunCache) {
	points := &memPointRepo{points: []domain.PickupPoint{
		{ID: "p1", Latitude: 19.4, Longitude: -99.1, Quantity: 2},
		{ID: "p2", Latitude: 19.5, Longitude: -99.2},
	}}
	vehicles := &memVehicleRepo{vehicles: []domain.Vehicle{
		{ID: "v1", Capacity: 20, MaxDistanceKm: 50,
			StartLocation: &domain.Coordinates{Lon: -99.1, Lat: 19.4}},
	}}
	routes := &memRouteRepo{}
	cache := &memRunCache{ok: true, runs: []ports.RunSummary{{ID: "stale-run"}}}

	svc := &OptimizeService{
		Points:     points,
		Vehicles:   vehicles,
		Solver:     solver,
		Reconciler: &Reconciler{Routes: routes, Log: quietLogger()},
		Cache:      cache,
		Log:        quietLogger(),
	}
	return svc, routes, cache
}

func TestOptimizeRunEndToEnd(t *testing.T) {
	var seen ports.OptimizationRequest
	solver := &stubSolver{
		solve: func(ctx context.Context, req ports.OptimizationRequest) (ports.Solution, error) {
			seen = req
			return ports.Solution{RunID: "run-42", Vehicles: []ports.SolutionVehicle{{
				ID: "v1", Raw: json.RawMessage(`{"id":"v1"}`), RouteDistance: 100,
			}}}, nil
		},
	}

	svc, routes, cache := optimizeFixture(solver)

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.RunID != "run-42" || len(res.Routes) != 1 {
		t.Fatalf("result = %+v", res)
	}
	if len(seen.Input.Stops) != 2 || seen.Input.Stops[0].Quantity != -2 {
		t.Fatalf("submitted request wrong: %+v", seen.Input.Stops)
	}

	stored, _ := routes.ListRoutes(context.Background())
	if len(stored) != 1 {
		t.Fatalf("stored routes = %d, want 1", len(stored))
	}
	if cache.dels != 1 {
		t.Fatalf("cache invalidations = %d, want 1", cache.dels)
	}
}

func TestOptimizeRequiresWorkingSet(t *testing.T) {
	solver := &stubSolver{
		solve: func(ctx context.Context, req ports.OptimizationRequest) (ports.Solution, error) {
			t.Fatal("solver must not be called on validation failure")
			return ports.Solution{}, nil
		},
	}

	svc, _, _ := optimizeFixture(solver)
	svc.Points = &memPointRepo{points: []domain.PickupPoint{{ID: "only", Latitude: 1, Longitude: 1}}}

	if _, err := svc.Run(context.Background()); !errors.Is(err, ErrNotEnoughPoints) {
		t.Fatalf("want ErrNotEnoughPoints, got %v", err)
	}

	svc, _, _ = optimizeFixture(solver)
	svc.Vehicles = &memVehicleRepo{}

	if _, err := svc.Run(context.Background()); !errors.Is(err, ErrNoVehicles) {
		t.Fatalf("want ErrNoVehicles, got %v", err)
	}
}

func TestOptimizeSurfacesSolverErrors(t *testing.T) {
	rejection := &ports.RejectedError{Code: 400, Detail: "capacity must be positive"}
	solver := &stubSolver{
		solve: func(ctx context.Context, req ports.OptimizationRequest) (ports.Solution, error) {
			return ports.Solution{}, rejection
		},
	}

	svc, routes, cache := optimizeFixture(solver)

	_, err := svc.Run(context.Background())

	var rejected *ports.RejectedError
	if !errors.As(err, &rejected) || rejected.Detail != rejection.Detail {
		t.Fatalf("want the solver's RejectedError, got %v", err)
	}

	stored, _ := routes.ListRoutes(context.Background())
	if len(stored) != 0 {
		t.Fatal("no routes may be written on a failed solve")
	}
	if cache.dels != 0 {
		t.Fatal("cache must not be invalidated on a failed solve")
	}
}

func TestOptimizeKeepsRoutesDespiteWarnings(t *testing.T) {
	solver := &stubSolver{
		solve: func(ctx context.Context, req ports.OptimizationRequest) (ports.Solution, error) {
			return ports.Solution{RunID: "run-1", Vehicles: []ports.SolutionVehicle{
				{ID: "v1", Raw: json.RawMessage(`{"id":"v1"}`)},
				{ID: "bad", Raw: json.RawMessage(`{"id":"bad"}`)},
			}}, nil
		},
	}

	svc, routes, _ := optimizeFixture(solver)
	routes.failMarker = `"bad"`

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Routes) != 2 {
		t.Fatalf("routes = %d, want both returned", len(res.Routes))
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v, want 1", res.Warnings)
	}
}
