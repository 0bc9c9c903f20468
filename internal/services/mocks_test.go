package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"pickup-route-service/internal/domain"
	"pickup-route-service/internal/ports"
)

type memPointRepo struct {
	points     []domain.PickupPoint
	failCreate bool
	failClear  bool
	nextID     int
}

func (m *memPointRepo) ListPickupPoints(ctx context.Context) ([]domain.PickupPoint, error) {
	return append([]domain.PickupPoint(nil), m.points...), nil
}

func (m *memPointRepo) CreatePickupPoint(ctx context.Context, p domain.PickupPoint) (domain.PickupPoint, error) {
	if m.failCreate {
		return domain.PickupPoint{}, errors.New("store unavailable")
	}
	if p.ID == "" {
		m.nextID++
		p.ID = fmt.Sprintf("p-%d", m.nextID)
	}
	m.points = append(m.points, p)
	return p, nil
}

func (m *memPointRepo) UpdatePickupPoint(ctx context.Context, p domain.PickupPoint) (domain.PickupPoint, error) {
	for i := range m.points {
		if m.points[i].ID == p.ID {
			m.points[i] = p
			return p, nil
		}
	}
	return domain.PickupPoint{}, ports.ErrNotFound
}

func (m *memPointRepo) DeletePickupPoint(ctx context.Context, id string) error {
	for i := range m.points {
		if m.points[i].ID == id {
			m.points = append(m.points[:i], m.points[i+1:]...)
			return nil
		}
	}
	return ports.ErrNotFound
}

func (m *memPointRepo) DeleteAllPickupPoints(ctx context.Context) error {
	if m.failClear {
		return errors.New("store unavailable")
	}
	m.points = nil
	return nil
}

type memVehicleRepo struct {
	vehicles []domain.Vehicle
}

func (m *memVehicleRepo) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return append([]domain.Vehicle(nil), m.vehicles...), nil
}

func (m *memVehicleRepo) CreateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	m.vehicles = append(m.vehicles, v)
	return v, nil
}

func (m *memVehicleRepo) UpdateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	for i := range m.vehicles {
		if m.vehicles[i].ID == v.ID {
			m.vehicles[i] = v
			return v, nil
		}
	}
	return domain.Vehicle{}, ports.ErrNotFound
}

func (m *memVehicleRepo) DeleteVehicle(ctx context.Context, id string) error {
	for i := range m.vehicles {
		if m.vehicles[i].ID == id {
			m.vehicles = append(m.vehicles[:i], m.vehicles[i+1:]...)
			return nil
		}
	}
	return ports.ErrNotFound
}

// memRouteRepo is safe for the reconciler's concurrent inserts. Inserts whose
// route data contains a configured marker fail, for partial-failure tests.
type memRouteRepo struct {
	mu            sync.Mutex
	routes        []domain.Route
	failDeleteAll bool
	failMarker    string
	nextID        int
}

func (m *memRouteRepo) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Route(nil), m.routes...), nil
}

func (m *memRouteRepo) InsertRoute(ctx context.Context, r domain.Route) (domain.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failMarker != "" && strings.Contains(string(r.RouteData), m.failMarker) {
		return domain.Route{}, errors.New("store unavailable")
	}
	if r.ID == "" {
		m.nextID++
		r.ID = fmt.Sprintf("r-%d", m.nextID)
	}
	m.routes = append(m.routes, r)
	return r, nil
}

func (m *memRouteRepo) DeleteAllRoutes(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDeleteAll {
		return errors.New("store unavailable")
	}
	m.routes = nil
	return nil
}

type stubSolver struct {
	solve       func(ctx context.Context, req ports.OptimizationRequest) (ports.Solution, error)
	runSolution func(ctx context.Context, runID string) (ports.Solution, error)
	listRuns    func(ctx context.Context) ([]ports.RunSummary, error)
}

func (s *stubSolver) Solve(ctx context.Context, req ports.OptimizationRequest) (ports.Solution, error) {
	return s.solve(ctx, req)
}

func (s *stubSolver) RunSolution(ctx context.Context, runID string) (ports.Solution, error) {
	return s.runSolution(ctx, runID)
}

func (s *stubSolver) ListRuns(ctx context.Context) ([]ports.RunSummary, error) {
	return s.listRuns(ctx)
}

type memRunCache struct {
	runs    []ports.RunSummary
	ok      bool
	failGet bool
	puts    int
	dels    int
}

func (m *memRunCache) Get(ctx context.Context) ([]ports.RunSummary, bool, error) {
	if m.failGet {
		return nil, false, errors.New("cache unavailable")
	}
	return m.runs, m.ok, nil
}

func (m *memRunCache) Put(ctx context.Context, runs []ports.RunSummary) error {
	m.runs = append([]ports.RunSummary(nil), runs...)
	m.ok = true
	m.puts++
	return nil
}

func (m *memRunCache) Invalidate(ctx context.Context) error {
	m.runs = nil
	m.ok = false
	m.dels++
	return nil
}
