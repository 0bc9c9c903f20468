package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"pickup-route-service/internal/domain"
	"pickup-route-service/internal/ports"
)

// Reconciler matches a solver solution against locally known vehicles and
// replaces the persisted route set with the result.
type Reconciler struct {
	Routes ports.RouteRepository
	Log    *slog.Logger
}

// ReconcileResult always carries the full computed route set. Persistence
// failures never discard an otherwise successful solve; they surface in
// Warnings instead.
type ReconcileResult struct {
	Routes   []domain.Route
	Warnings []string
}

// matchVehicle resolves a solver-echoed vehicle id to a local vehicle. The
// solver echoes either the id the request carried or the synthetic
// "vehicle-<index>" assigned to vehicles submitted without one; both forms
// resolve here. An unmatched id yields nil, never an error.
func matchVehicle(vehicles []domain.Vehicle, solverID string) *domain.Vehicle {
	for i := range vehicles {
		if vehicles[i].ID != "" && vehicles[i].ID == solverID {
			return &vehicles[i]
		}
	}

	idx, ok := strings.CutPrefix(solverID, "vehicle-")
	if ok {
		if i, err := strconv.Atoi(idx); err == nil && i >= 0 && i < len(vehicles) {
			return &vehicles[i]
		}
	}

	return nil
}

// Reconcile converts the solution into routes and persists them with replace
// semantics: delete everything, then insert the new set. Inserts for distinct
// vehicles are independent and fan out concurrently.
func (rc *Reconciler) Reconcile(
	ctx context.Context,
	vehicles []domain.Vehicle,
	sol ports.Solution,
) ReconcileResult {
	now := time.Now().UTC()

	routes := make([]domain.Route, 0, len(sol.Vehicles))
	for _, sv := range sol.Vehicles {
		route := domain.Route{
			RouteData:     sv.Raw,
			TotalDistance: sv.RouteDistance,
			TotalDuration: sv.RouteDuration,
			CreatedAt:     now,
		}

		if v := matchVehicle(vehicles, sv.ID); v != nil {
			id := v.ID
			route.VehicleID = &id
		} else {
			rc.log().Warn("solution vehicle has no local match", "solver_id", sv.ID)
		}

		routes = append(routes, route)
	}

	result := ReconcileResult{Routes: routes}

	if err := rc.Routes.DeleteAllRoutes(ctx); err != nil {
		rc.log().Warn("clearing previous routes failed", "err", err)
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("clear previous routes: %v", err))
	}

	errs := make([]error, len(routes))
	var wg sync.WaitGroup
	for i := range routes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stored, err := rc.Routes.InsertRoute(ctx, routes[i])
			if err != nil {
				errs[i] = err
				return
			}
			routes[i] = stored
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		rc.log().Warn("route not persisted", "index", i, "err", err)
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("store route %d: %v", i, err))
	}

	return result
}

func (rc *Reconciler) log() *slog.Logger {
	if rc.Log != nil {
		return rc.Log
	}
	return slog.Default()
}
