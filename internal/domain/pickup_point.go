package domain

// Represents a demand location placed by the user, either manually, by map
// click, or through spreadsheet import. The in-memory copy is a working set;
// the persisted record is a side effect, not the source of truth for an
// in-flight optimization.
type PickupPoint struct {
	ID        string
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
	Quantity  int
}

func (p PickupPoint) Location() Coordinates {
	return Coordinates{Lon: p.Longitude, Lat: p.Latitude}
}

// Demand returns the pickup quantity, defaulting to 1 when unset.
func (p PickupPoint) Demand() int {
	if p.Quantity < 1 {
		return 1
	}
	return p.Quantity
}
