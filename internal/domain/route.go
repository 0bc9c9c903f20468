package domain

import (
	"encoding/json"
	"time"
)

// Represents one vehicle's assignment within a solved optimization run.
// Routes are a derived cache: the latest run's solution fully replaces any
// previously persisted routes, and every route is regenerable from its run.
//
// VehicleID is nil when the solver echoed an id that could not be matched to
// a locally known vehicle; the solver output is kept regardless.
type Route struct {
	ID            string
	VehicleID     *string
	RouteData     json.RawMessage
	TotalDistance float64
	TotalDuration float64
	CreatedAt     time.Time
}
