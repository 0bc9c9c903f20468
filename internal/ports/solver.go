package ports

import (
	"context"
	"encoding/json"
	"time"
)

// Wire format accepted by the external optimization service. The request is
// derived fresh per submission from the current pickup point and vehicle
// sets and is never persisted. Optional fields use omitempty because the
// solver distinguishes absent from null.
type OptimizationRequest struct {
	Input   OptimizationInput `json:"input"`
	Options RequestOptions    `json:"options"`
}

type RequestOptions struct {
	SolveDuration string `json:"solve.duration"`
}

type OptimizationInput struct {
	Defaults RequestDefaults  `json:"defaults"`
	Stops    []Stop           `json:"stops"`
	Vehicles []RequestVehicle `json:"vehicles"`
}

type RequestDefaults struct {
	Vehicles VehicleDefaults `json:"vehicles"`
}

type VehicleDefaults struct {
	Speed     float64 `json:"speed"`
	Capacity  int     `json:"capacity"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
}

type Location struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Stop quantity is negative by solver convention: demand is removed from the
// vehicle's capacity at the stop.
type Stop struct {
	ID       string   `json:"id"`
	Location Location `json:"location"`
	Quantity int      `json:"quantity"`
}

// RequestVehicle max_distance is in meters on the wire.
type RequestVehicle struct {
	ID            string    `json:"id"`
	StartLocation Location  `json:"start_location"`
	EndLocation   *Location `json:"end_location,omitempty"`
	Capacity      int       `json:"capacity"`
	MaxDistance   float64   `json:"max_distance"`
	Speed         float64   `json:"speed"`
}

// Run lifecycle as reported by the solver. Status transitions are owned
// exclusively by the solver; this client only observes them via polling.
type RunStatus string

const (
	RunQueued    RunStatus = "queued"
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
	RunError     RunStatus = "error"
	RunUnknown   RunStatus = "unknown"
)

// ParseRunStatus maps a solver-reported status string onto the closed status
// set, collapsing anything unrecognized to RunUnknown.
func ParseRunStatus(s string) RunStatus {
	switch RunStatus(s) {
	case RunQueued, RunRunning, RunSucceeded, RunFailed, RunError:
		return RunStatus(s)
	default:
		return RunUnknown
	}
}

// Terminal reports whether the status ends a polling loop.
func (s RunStatus) Terminal() bool {
	return s == RunSucceeded || s == RunFailed || s == RunError
}

// One previously submitted run, as listed by the solver.
type RunSummary struct {
	ID        string
	Status    RunStatus
	CreatedAt time.Time
}

// One vehicle's assignment within a solution. Raw preserves the solver's
// full per-vehicle payload for persistence and visualization; the distance
// and duration metrics default to zero when the solver omits them.
type SolutionVehicle struct {
	ID            string
	Raw           json.RawMessage
	RouteDistance float64
	RouteDuration float64
}

// The solver's proposed assignment of stops to vehicles.
type Solution struct {
	RunID    string
	Vehicles []SolutionVehicle
}

// Port: the external vehicle-routing optimization service.
type RouteSolver interface {
	// Solve submits the request and blocks until a terminal outcome:
	// either the first solution, or one of the errors defined in
	// solver_errors.go. Cancelling ctx stops polling cleanly.
	Solve(ctx context.Context, req OptimizationRequest) (Solution, error)
	// RunSolution fetches the solution of a previously submitted run.
	RunSolution(ctx context.Context, runID string) (Solution, error)
	// ListRuns returns previously submitted runs sorted newest first.
	ListRuns(ctx context.Context) ([]RunSummary, error)
}
