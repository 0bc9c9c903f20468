package services

import (
	"context"
	"fmt"
	"log/slog"

	"pickup-route-service/internal/platform/obs"
	"pickup-route-service/internal/ports"
)

// RunHistoryService lists previously submitted runs and replays a past run's
// solution into the persisted route set.
type RunHistoryService struct {
	Solver     ports.RouteSolver
	Vehicles   ports.VehicleRepository
	Reconciler *Reconciler
	Cache      ports.RunCache
	Log        *slog.Logger
}

// RunHistory is a listing that may be served from cache. When the live
// refresh fails but a cached listing exists, Stale is set and Warning
// explains the degradation; previously known runs are never cleared by a
// failed refresh.
type RunHistory struct {
	Runs    []ports.RunSummary
	Stale   bool
	Warning string
}

func (s *RunHistoryService) List(ctx context.Context) (_ RunHistory, err error) {
	defer obs.Time(ctx, s.Log, "runs.List")(&err)

	runs, solveErr := s.Solver.ListRuns(ctx)
	if solveErr != nil {
		if s.Cache != nil {
			cached, ok, cacheErr := s.Cache.Get(ctx)
			if cacheErr != nil {
				s.log().Warn("run history cache read failed", "err", cacheErr)
			}
			if cacheErr == nil && ok {
				s.log().Warn("serving cached run history after failed refresh",
					"err", solveErr)
				return RunHistory{
					Runs:    cached,
					Stale:   true,
					Warning: fmt.Sprintf("run history refresh failed: %v; showing the last known list", solveErr),
				}, nil
			}
		}
		return RunHistory{}, fmt.Errorf("list runs: %w", solveErr)
	}

	if s.Cache != nil {
		if err := s.Cache.Put(ctx, runs); err != nil {
			s.log().Warn("run history cache write failed", "err", err)
		}
	}

	return RunHistory{Runs: runs}, nil
}

// LoadRun replays a past run: fetch its solution and reconcile it against the
// current vehicle set, replacing the persisted routes.
func (s *RunHistoryService) LoadRun(ctx context.Context, runID string) (_ OptimizeResult, err error) {
	defer obs.Time(ctx, s.Log, "runs.LoadRun")(&err)

	sol, err := s.Solver.RunSolution(ctx, runID)
	if err != nil {
		return OptimizeResult{}, err
	}

	vehicles, err := s.Vehicles.ListVehicles(ctx)
	if err != nil {
		return OptimizeResult{}, fmt.Errorf("load run: load vehicles: %w", err)
	}

	res := s.Reconciler.Reconcile(ctx, vehicles, sol)

	return OptimizeResult{
		RunID:    sol.RunID,
		Routes:   res.Routes,
		Warnings: res.Warnings,
	}, nil
}

func (s *RunHistoryService) log() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
