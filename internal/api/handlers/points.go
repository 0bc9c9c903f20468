package handlers

import (
	"log/slog"
	"net/http"

	"pickup-route-service/internal/api/dto"
	"pickup-route-service/internal/domain"
	"pickup-route-service/internal/ports"
	"pickup-route-service/internal/services"
)

type PointHandler struct {
	Repo     ports.PickupPointRepository
	Importer *services.Importer
	Log      *slog.Logger
}

func pointResponse(p domain.PickupPoint) dto.PointResponse {
	return dto.PointResponse{
		ID:        p.ID,
		Name:      p.Name,
		Address:   p.Address,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Quantity:  p.Demand(),
	}
}

func (h *PointHandler) List(w http.ResponseWriter, r *http.Request) {
	points, err := h.Repo.ListPickupPoints(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.ListPointsResponse{Points: make([]dto.PointResponse, 0, len(points))}
	for _, p := range points {
		res.Points = append(res.Points, pointResponse(p))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// pointFromRequest validates the coordinate before anything is stored.
func pointFromRequest(req dto.PointRequest) (domain.PickupPoint, bool) {
	p := domain.PickupPoint{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  float64(req.Latitude),
		Longitude: float64(req.Longitude),
		Quantity:  int(req.Quantity),
	}
	return p, p.Location().Valid()
}

func (h *PointHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PointRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	p, ok := pointFromRequest(req)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "latitude/longitude out of range")
		return
	}

	created, err := h.Repo.CreatePickupPoint(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, pointResponse(created))
}

func (h *PointHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.PointRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	p, ok := pointFromRequest(req)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "latitude/longitude out of range")
		return
	}
	p.ID = r.PathValue("id")

	updated, err := h.Repo.UpdatePickupPoint(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, pointResponse(updated))
}

func (h *PointHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeletePickupPoint(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PointHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteAllPickupPoints(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import ingests a CSV body and replaces the stored point set.
func (h *PointHandler) Import(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	summary, err := h.Importer.ImportCSV(r.Context(), r.Body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, r, http.StatusOK, summary)
}
