package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"pickup-route-service/internal/domain"
	"pickup-route-service/internal/ports"
)

func TestRunHistoryListCachesFreshResult(t *testing.T) {
	fresh := []ports.RunSummary{
		{ID: "run-2", Status: ports.RunSucceeded, CreatedAt: time.Now()},
		{ID: "run-1", Status: ports.RunFailed},
	}
	solver := &stubSolver{
		listRuns: func(ctx context.Context) ([]ports.RunSummary, error) { return fresh, nil },
	}
	cache := &memRunCache{}

	svc := &RunHistoryService{Solver: solver, Cache: cache, Log: quietLogger()}

	history, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if history.Stale || history.Warning != "" {
		t.Fatalf("fresh listing marked stale: %+v", history)
	}
	if len(history.Runs) != 2 || history.Runs[0].ID != "run-2" {
		t.Fatalf("runs = %+v", history.Runs)
	}
	if cache.puts != 1 {
		t.Fatalf("cache puts = %d, want 1", cache.puts)
	}
}

func TestRunHistoryListServesCacheOnFailedRefresh(t *testing.T) {
	solver := &stubSolver{
		listRuns: func(ctx context.Context) ([]ports.RunSummary, error) {
			return nil, &ports.TransportError{Cause: "cannot reach the optimization service"}
		},
	}
	cache := &memRunCache{ok: true, runs: []ports.RunSummary{{ID: "run-1", Status: ports.RunSucceeded}}}

	svc := &RunHistoryService{Solver: solver, Cache: cache, Log: quietLogger()}

	history, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("a cached listing must absorb the refresh failure, got %v", err)
	}
	if !history.Stale {
		t.Fatal("degraded listing not marked stale")
	}
	if !strings.Contains(history.Warning, "refresh failed") {
		t.Fatalf("warning = %q", history.Warning)
	}
	if len(history.Runs) != 1 || history.Runs[0].ID != "run-1" {
		t.Fatalf("runs = %+v, want the cached list", history.Runs)
	}
}

func TestRunHistoryListFailsWithoutFallback(t *testing.T) {
	refreshErr := &ports.TransportError{Cause: "unreachable"}
	solver := &stubSolver{
		listRuns: func(ctx context.Context) ([]ports.RunSummary, error) { return nil, refreshErr },
	}

	for name, cache := range map[string]ports.RunCache{
		"no cache":    nil,
		"cache miss":  &memRunCache{},
		"cache error": &memRunCache{failGet: true},
	} {
		t.Run(name, func(t *testing.T) {
			svc := &RunHistoryService{Solver: solver, Cache: cache, Log: quietLogger()}

			_, err := svc.List(context.Background())
			var transport *ports.TransportError
			if !errors.As(err, &transport) {
				t.Fatalf("want the refresh error surfaced, got %v", err)
			}
		})
	}
}

func TestLoadRunReplaysIntoRoutes(t *testing.T) {
	solver := &stubSolver{
		runSolution: func(ctx context.Context, runID string) (ports.Solution, error) {
			if runID != "run-7" {
				t.Fatalf("run id = %q", runID)
			}
			return ports.Solution{RunID: runID, Vehicles: []ports.SolutionVehicle{{
				ID: "v1", Raw: json.RawMessage(`{"id":"v1"}`),
			}}}, nil
		},
	}
	routes := &memRouteRepo{}
	svc := &RunHistoryService{
		Solver:     solver,
		Vehicles:   &memVehicleRepo{vehicles: []domain.Vehicle{{ID: "v1"}}},
		Reconciler: &Reconciler{Routes: routes, Log: quietLogger()},
		Log:        quietLogger(),
	}

	res, err := svc.LoadRun(context.Background(), "run-7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RunID != "run-7" || len(res.Routes) != 1 {
		t.Fatalf("result = %+v", res)
	}

	stored, _ := routes.ListRoutes(context.Background())
	if len(stored) != 1 || stored[0].VehicleID == nil || *stored[0].VehicleID != "v1" {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestLoadRunSurfacesNoSolution(t *testing.T) {
	solver := &stubSolver{
		runSolution: func(ctx context.Context, runID string) (ports.Solution, error) {
			return ports.Solution{}, &ports.NoSolutionError{RunID: runID}
		},
	}
	svc := &RunHistoryService{Solver: solver, Log: quietLogger()}

	_, err := svc.LoadRun(context.Background(), "run-9")
	var noSol *ports.NoSolutionError
	if !errors.As(err, &noSol) {
		t.Fatalf("want NoSolutionError, got %v", err)
	}
}
