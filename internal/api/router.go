package api

import (
	"log/slog"
	"net/http"

	"pickup-route-service/internal/api/handlers"
	"pickup-route-service/internal/ports"
	"pickup-route-service/internal/services"
)

// Deps bundles everything the HTTP surface needs. Handlers stay unaware of
// concrete adapters; this is the API composition root.
type Deps struct {
	Points   ports.PickupPointRepository
	Vehicles ports.VehicleRepository
	Routes   ports.RouteRepository
	Importer *services.Importer
	Optimize *services.OptimizeService
	Runs     *services.RunHistoryService
	Log      *slog.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler.
func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = slog.Default()
	}

	mux := http.NewServeMux()

	pointHandler := &handlers.PointHandler{Repo: d.Points, Importer: d.Importer, Log: d.Log}
	vehicleHandler := &handlers.VehicleHandler{Repo: d.Vehicles, Log: d.Log}
	routeHandler := &handlers.RouteHandler{Repo: d.Routes, Log: d.Log}
	optimizeHandler := &handlers.OptimizeHandler{Service: d.Optimize, Log: d.Log}
	runHandler := &handlers.RunHandler{Service: d.Runs, Log: d.Log}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("GET /points", pointHandler.List)
	mux.HandleFunc("POST /points", pointHandler.Create)
	mux.HandleFunc("PUT /points/{id}", pointHandler.Update)
	mux.HandleFunc("DELETE /points/{id}", pointHandler.Delete)
	mux.HandleFunc("DELETE /points", pointHandler.DeleteAll)
	mux.HandleFunc("POST /points/import", pointHandler.Import)

	mux.HandleFunc("GET /vehicles", vehicleHandler.List)
	mux.HandleFunc("POST /vehicles", vehicleHandler.Create)
	mux.HandleFunc("PUT /vehicles/{id}", vehicleHandler.Update)
	mux.HandleFunc("DELETE /vehicles/{id}", vehicleHandler.Delete)

	mux.HandleFunc("POST /optimize", optimizeHandler.Run)

	mux.HandleFunc("GET /runs", runHandler.List)
	mux.HandleFunc("POST /runs/{id}/load", runHandler.Load)

	mux.HandleFunc("GET /routes", routeHandler.List)

	return requestIDMiddleware(loggingMiddleware(d.Log, mux))
}
