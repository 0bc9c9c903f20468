package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pickup-route-service/internal/domain"
	"pickup-route-service/internal/platform/obs"
	"pickup-route-service/internal/ports"
)

var (
	ErrNotEnoughPoints = errors.New("at least two pickup points are required")
	ErrNoVehicles      = errors.New("at least one vehicle is required")
)

// OptimizeService runs one full optimization: load the working set, build
// the request, solve, reconcile, persist.
type OptimizeService struct {
	Points     ports.PickupPointRepository
	Vehicles   ports.VehicleRepository
	Solver     ports.RouteSolver
	Reconciler *Reconciler
	Cache      ports.RunCache
	Log        *slog.Logger
}

type OptimizeResult struct {
	RunID    string
	Routes   []domain.Route
	Warnings []string
}

// Run executes an optimization end to end. Validation failures abort before
// submission; solver failures return the typed errors of the solver port;
// persistence failures after a successful solve degrade to warnings.
func (s *OptimizeService) Run(ctx context.Context) (_ OptimizeResult, err error) {
	defer obs.Time(ctx, s.Log, "optimize.Run")(&err)

	points, err := s.Points.ListPickupPoints(ctx)
	if err != nil {
		return OptimizeResult{}, fmt.Errorf("optimize: load pickup points: %w", err)
	}
	vehicles, err := s.Vehicles.ListVehicles(ctx)
	if err != nil {
		return OptimizeResult{}, fmt.Errorf("optimize: load vehicles: %w", err)
	}

	if len(points) < 2 {
		return OptimizeResult{}, ErrNotEnoughPoints
	}
	if len(vehicles) == 0 {
		return OptimizeResult{}, ErrNoVehicles
	}

	req, err := BuildOptimizationRequest(points, vehicles)
	if err != nil {
		return OptimizeResult{}, err
	}

	sol, err := s.Solver.Solve(ctx, req)
	if err != nil {
		return OptimizeResult{}, err
	}

	res := s.Reconciler.Reconcile(ctx, vehicles, sol)

	result := OptimizeResult{
		RunID:    sol.RunID,
		Routes:   res.Routes,
		Warnings: res.Warnings,
	}

	// A fresh run makes any cached history listing outdated.
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx); err != nil {
			s.log().Warn("run history cache invalidation failed", "err", err)
		}
	}

	return result, nil
}

func (s *OptimizeService) log() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
