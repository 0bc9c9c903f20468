package services

import (
	"errors"
	"fmt"
	"math"

	"pickup-route-service/internal/domain"
	"pickup-route-service/internal/ports"
)

// Local input validation failures. These abort a submission before anything
// reaches the solver; no partial state is left behind.
var (
	ErrInvalidCoordinate  = errors.New("invalid coordinate")
	ErrNoStartLocation    = errors.New("no start location available")
	ErrInvalidCapacity    = errors.New("capacity must be a positive integer")
	ErrInvalidMaxDistance = errors.New("max distance must be a positive number of kilometers")
)

// Uniform planning parameters injected into request defaults. Not
// user-configurable in this version.
const (
	defaultSpeedMPS    = 10.0
	defaultCapacity    = 20
	shiftStart         = "2025-01-01T08:00:00Z"
	shiftEnd           = "2025-01-01T18:00:00Z"
	solveDuration      = "10s"
	metersPerKilometer = 1000
)

// BuildOptimizationRequest converts the current pickup point and vehicle sets
// into the solver's wire request.
//
// Stop quantities are emitted negative (demand removed at the stop). A
// vehicle without an explicit start location falls back to the first pickup
// point; with no points either, the build fails with ErrNoStartLocation.
// The function is pure: inputs are not mutated and no I/O happens here.
func BuildOptimizationRequest(
	points []domain.PickupPoint,
	vehicles []domain.Vehicle,
) (ports.OptimizationRequest, error) {
	stops := make([]ports.Stop, 0, len(points))
	for i, p := range points {
		loc := p.Location()
		if !loc.Valid() {
			return ports.OptimizationRequest{}, fmt.Errorf(
				"pickup point %s (%v, %v): %w",
				stopID(p, i), p.Latitude, p.Longitude, ErrInvalidCoordinate)
		}

		stops = append(stops, ports.Stop{
			ID:       stopID(p, i),
			Location: ports.Location{Lon: loc.Lon, Lat: loc.Lat},
			Quantity: -p.Demand(),
		})
	}

	reqVehicles := make([]ports.RequestVehicle, 0, len(vehicles))
	for i, v := range vehicles {
		id := v.ID
		if id == "" {
			id = fmt.Sprintf("vehicle-%d", i)
		}

		start, err := resolveStart(v, points)
		if err != nil {
			return ports.OptimizationRequest{}, fmt.Errorf("vehicle %s: %w", id, err)
		}

		var end *ports.Location
		if v.EndLocation != nil {
			if !v.EndLocation.Valid() {
				return ports.OptimizationRequest{}, fmt.Errorf(
					"vehicle %s end location: %w", id, ErrInvalidCoordinate)
			}
			end = &ports.Location{Lon: v.EndLocation.Lon, Lat: v.EndLocation.Lat}
		}

		if v.Capacity <= 0 {
			return ports.OptimizationRequest{}, fmt.Errorf("vehicle %s: %w", id, ErrInvalidCapacity)
		}

		km := v.MaxDistanceKm
		if km <= 0 || math.IsNaN(km) || math.IsInf(km, 0) {
			return ports.OptimizationRequest{}, fmt.Errorf("vehicle %s: %w", id, ErrInvalidMaxDistance)
		}

		reqVehicles = append(reqVehicles, ports.RequestVehicle{
			ID:            id,
			StartLocation: start,
			EndLocation:   end,
			Capacity:      v.Capacity,
			MaxDistance:   km * metersPerKilometer,
			Speed:         defaultSpeedMPS,
		})
	}

	return ports.OptimizationRequest{
		Input: ports.OptimizationInput{
			Defaults: ports.RequestDefaults{
				Vehicles: ports.VehicleDefaults{
					Speed:     defaultSpeedMPS,
					Capacity:  defaultCapacity,
					StartTime: shiftStart,
					EndTime:   shiftEnd,
				},
			},
			Stops:    stops,
			Vehicles: reqVehicles,
		},
		Options: ports.RequestOptions{SolveDuration: solveDuration},
	}, nil
}

func stopID(p domain.PickupPoint, i int) string {
	if p.ID != "" {
		return p.ID
	}
	return fmt.Sprintf("stop-%d", i)
}

func resolveStart(v domain.Vehicle, points []domain.PickupPoint) (ports.Location, error) {
	if v.StartLocation != nil {
		if !v.StartLocation.Valid() {
			return ports.Location{}, fmt.Errorf("start location: %w", ErrInvalidCoordinate)
		}
		return ports.Location{Lon: v.StartLocation.Lon, Lat: v.StartLocation.Lat}, nil
	}

	if len(points) > 0 {
		loc := points[0].Location()
		return ports.Location{Lon: loc.Lon, Lat: loc.Lat}, nil
	}

	return ports.Location{}, ErrNoStartLocation
}
