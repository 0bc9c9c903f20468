package domain

import "math"

// Immutable geographic coordinates (longitude, latitude), WGS84 degrees.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Valid reports whether both components are finite and within WGS84 bounds
// (latitude in [-90,90], longitude in [-180,180]).
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) {
		return false
	}
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// BoundingBox restricts accepted coordinates to a configured geographic area,
// e.g. the service territory for spreadsheet imports. The zero value accepts
// any valid coordinate.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

func (b BoundingBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLon == 0 && b.MaxLon == 0
}

// Contains reports whether c falls inside the box. An unset (zero) box
// contains every coordinate.
func (b BoundingBox) Contains(c Coordinates) bool {
	if b.IsZero() {
		return true
	}
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}
