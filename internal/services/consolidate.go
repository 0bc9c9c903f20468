package services

import (
	"pickup-route-service/internal/domain"
)

// One raw location record, e.g. a parsed spreadsheet row. Quantity below 1
// counts as 1.
type RawPoint struct {
	Lat      float64
	Lon      float64
	Name     string
	Address  string
	Quantity int
}

// Consolidate deduplicates raw records by exact coordinate match, summing the
// demand quantity per unique coordinate. Output points appear in
// first-occurrence order and carry the name and address of the first record
// at their coordinate.
//
// Records with out-of-range or non-finite coordinates, or outside box, are
// skipped and counted, never fatal. The function is pure and idempotent:
// consolidating its own output changes nothing.
func Consolidate(records []RawPoint, box domain.BoundingBox) (points []domain.PickupPoint, skipped int) {
	type key struct{ lat, lon float64 }

	index := make(map[key]int, len(records))
	points = make([]domain.PickupPoint, 0, len(records))

	for _, rec := range records {
		c := domain.Coordinates{Lon: rec.Lon, Lat: rec.Lat}
		if !c.Valid() || !box.Contains(c) {
			skipped++
			continue
		}

		quantity := rec.Quantity
		if quantity < 1 {
			quantity = 1
		}

		k := key{lat: rec.Lat, lon: rec.Lon}
		if i, ok := index[k]; ok {
			points[i].Quantity += quantity
			continue
		}

		index[k] = len(points)
		points = append(points, domain.PickupPoint{
			Name:      rec.Name,
			Address:   rec.Address,
			Latitude:  rec.Lat,
			Longitude: rec.Lon,
			Quantity:  quantity,
		})
	}

	return points, skipped
}
