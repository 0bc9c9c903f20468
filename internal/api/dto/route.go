package dto

import (
	"encoding/json"
	"time"
)

type RouteResponse struct {
	ID            string          `json:"id"`
	VehicleID     *string         `json:"vehicle_id"`
	RouteData     json.RawMessage `json:"route_data"`
	TotalDistance float64         `json:"total_distance"`
	TotalDuration float64         `json:"total_duration"`
	CreatedAt     time.Time       `json:"created_at"`
}

type ListRoutesResponse struct {
	Routes []RouteResponse `json:"routes"`
}

type OptimizeResponse struct {
	RunID    string          `json:"run_id"`
	Routes   []RouteResponse `json:"routes"`
	Warnings []string        `json:"warnings,omitempty"`
}
