package handlers

import (
	"log/slog"
	"net/http"

	"pickup-route-service/internal/api/dto"
	"pickup-route-service/internal/ports"
)

type RouteHandler struct {
	Repo ports.RouteRepository
	Log  *slog.Logger
}

// List serves the latest reconciled route set.
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	routes, err := h.Repo.ListRoutes(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.ListRoutesResponse{Routes: make([]dto.RouteResponse, 0, len(routes))}
	for _, route := range routes {
		res.Routes = append(res.Routes, routeResponse(route))
	}
	writeJSON(w, r, http.StatusOK, res)
}
