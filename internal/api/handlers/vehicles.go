package handlers

import (
	"log/slog"
	"math"
	"net/http"

	"pickup-route-service/internal/api/dto"
	"pickup-route-service/internal/domain"
	"pickup-route-service/internal/ports"
)

type VehicleHandler struct {
	Repo ports.VehicleRepository
	Log  *slog.Logger
}

func locationFromPayload(p *dto.LocationPayload) *domain.Coordinates {
	if p == nil {
		return nil
	}
	return &domain.Coordinates{Lon: float64(p.Lon), Lat: float64(p.Lat)}
}

func locationResponse(c *domain.Coordinates) *dto.LocationResponse {
	if c == nil {
		return nil
	}
	return &dto.LocationResponse{Lon: c.Lon, Lat: c.Lat}
}

func vehicleResponse(v domain.Vehicle) dto.VehicleResponse {
	return dto.VehicleResponse{
		ID:            v.ID,
		Name:          v.Name,
		Capacity:      v.Capacity,
		MaxDistanceKm: v.MaxDistanceKm,
		StartLocation: locationResponse(v.StartLocation),
		EndLocation:   locationResponse(v.EndLocation),
	}
}

// vehicleFromRequest rejects what the request builder would reject later, so
// a stored vehicle is always submittable.
func vehicleFromRequest(req dto.VehicleRequest) (domain.Vehicle, string) {
	v := domain.Vehicle{
		Name:          req.Name,
		Capacity:      int(req.Capacity),
		MaxDistanceKm: float64(req.MaxDistanceKm),
		StartLocation: locationFromPayload(req.StartLocation),
		EndLocation:   locationFromPayload(req.EndLocation),
	}

	if v.Capacity <= 0 {
		return domain.Vehicle{}, "capacity must be a positive integer"
	}
	if km := v.MaxDistanceKm; km <= 0 || math.IsNaN(km) || math.IsInf(km, 0) {
		return domain.Vehicle{}, "max_distance_km must be a positive number"
	}
	if v.StartLocation != nil && !v.StartLocation.Valid() {
		return domain.Vehicle{}, "start_location out of range"
	}
	if v.EndLocation != nil && !v.EndLocation.Valid() {
		return domain.Vehicle{}, "end_location out of range"
	}

	return v, ""
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Repo.ListVehicles(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.ListVehiclesResponse{Vehicles: make([]dto.VehicleResponse, 0, len(vehicles))}
	for _, v := range vehicles {
		res.Vehicles = append(res.Vehicles, vehicleResponse(v))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.VehicleRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	v, msg := vehicleFromRequest(req)
	if msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	created, err := h.Repo.CreateVehicle(r.Context(), v)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, vehicleResponse(created))
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.VehicleRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	v, msg := vehicleFromRequest(req)
	if msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}
	v.ID = r.PathValue("id")

	updated, err := h.Repo.UpdateVehicle(r.Context(), v)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, vehicleResponse(updated))
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteVehicle(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
