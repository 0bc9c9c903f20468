package dto

type LocationPayload struct {
	Lon FlexFloat `json:"lon"`
	Lat FlexFloat `json:"lat"`
}

type VehicleRequest struct {
	Name          string           `json:"name"`
	Capacity      FlexInt          `json:"capacity"`
	MaxDistanceKm FlexFloat        `json:"max_distance_km"`
	StartLocation *LocationPayload `json:"start_location"`
	EndLocation   *LocationPayload `json:"end_location"`
}

type LocationResponse struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type VehicleResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Capacity      int               `json:"capacity"`
	MaxDistanceKm float64           `json:"max_distance_km"`
	StartLocation *LocationResponse `json:"start_location,omitempty"`
	EndLocation   *LocationResponse `json:"end_location,omitempty"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}
