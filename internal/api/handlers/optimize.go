package handlers

import (
	"log/slog"
	"net/http"

	"pickup-route-service/internal/api/dto"
	"pickup-route-service/internal/domain"
	"pickup-route-service/internal/services"
)

type OptimizeHandler struct {
	Service *services.OptimizeService
	Log     *slog.Logger
}

func routeResponse(r domain.Route) dto.RouteResponse {
	return dto.RouteResponse{
		ID:            r.ID,
		VehicleID:     r.VehicleID,
		RouteData:     r.RouteData,
		TotalDistance: r.TotalDistance,
		TotalDuration: r.TotalDuration,
		CreatedAt:     r.CreatedAt,
	}
}

// Run triggers a full optimization of the current working set.
func (h *OptimizeHandler) Run(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.Run(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.OptimizeResponse{
		RunID:    result.RunID,
		Routes:   make([]dto.RouteResponse, 0, len(result.Routes)),
		Warnings: result.Warnings,
	}
	for _, route := range result.Routes {
		res.Routes = append(res.Routes, routeResponse(route))
	}

	writeJSON(w, r, http.StatusOK, res)
}
