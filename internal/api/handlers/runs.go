package handlers

import (
	"log/slog"
	"net/http"

	"pickup-route-service/internal/api/dto"
	"pickup-route-service/internal/services"
)

type RunHandler struct {
	Service *services.RunHistoryService
	Log     *slog.Logger
}

// List serves the run history, possibly a cached copy when the live refresh
// fails.
func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	history, err := h.Service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.ListRunsResponse{
		Runs:    make([]dto.RunResponse, 0, len(history.Runs)),
		Stale:   history.Stale,
		Warning: history.Warning,
	}
	for _, run := range history.Runs {
		rr := dto.RunResponse{ID: run.ID, Status: string(run.Status)}
		if !run.CreatedAt.IsZero() {
			createdAt := run.CreatedAt
			rr.CreatedAt = &createdAt
		}
		res.Runs = append(res.Runs, rr)
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Load replays a past run into the persisted route set.
func (h *RunHandler) Load(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	if runID == "" {
		writeError(w, r, http.StatusBadRequest, "run id is required")
		return
	}

	result, err := h.Service.LoadRun(r.Context(), runID)
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
