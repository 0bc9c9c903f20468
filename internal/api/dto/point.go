package dto

type PointRequest struct {
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Latitude  FlexFloat `json:"latitude"`
	Longitude FlexFloat `json:"longitude"`
	Quantity  FlexInt   `json:"quantity"`
}

type PointResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Quantity  int     `json:"quantity"`
}

type ListPointsResponse struct {
	Points []PointResponse `json:"points"`
}
