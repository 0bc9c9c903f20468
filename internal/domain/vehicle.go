package domain

// Represents a configured vehicle available for route optimization.
// MaxDistanceKm is stored in kilometers as entered by the user; the request
// builder converts it to meters for the solver. Start and end locations are
// optional: a vehicle without a start location falls back to the first pickup
// point at build time, and an end location is only sent when explicitly set.
type Vehicle struct {
	ID            string
	Name          string
	Capacity      int
	MaxDistanceKm float64
	StartLocation *Coordinates
	EndLocation   *Coordinates
}
