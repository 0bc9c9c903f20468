package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"pickup-route-service/internal/domain"
	"pickup-route-service/internal/platform/obs"
	"pickup-route-service/internal/ports"
)

// Importer ingests spreadsheet exports (CSV) into the pickup point store.
// An import replaces the stored point set with the consolidated rows.
type Importer struct {
	Points ports.PickupPointRepository
	Box    domain.BoundingBox
	Log    *slog.Logger
}

type ImportSummary struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

// Recognized header names per column, lowercase. Spreadsheets arrive from
// mixed-locale users, so Spanish aliases are accepted alongside English.
var (
	latHeaders      = []string{"latitude", "lat", "latitud"}
	lonHeaders      = []string{"longitude", "lon", "lng", "longitud"}
	quantityHeaders = []string{"quantity", "qty", "cantidad"}
	nameHeaders     = []string{"name", "nombre"}
	addressHeaders  = []string{"address", "direccion", "dirección"}
)

type columnMap struct {
	lat      int
	lon      int
	quantity int
	name     int
	address  int
}

func matchHeader(cell string, aliases []string) bool {
	cell = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
	for _, a := range aliases {
		if cell == a {
			return true
		}
	}
	return false
}

func detectColumns(header []string) (columnMap, error) {
	cols := columnMap{lat: -1, lon: -1, quantity: -1, name: -1, address: -1}

	for i, cell := range header {
		switch {
		case cols.lat < 0 && matchHeader(cell, latHeaders):
			cols.lat = i
		case cols.lon < 0 && matchHeader(cell, lonHeaders):
			cols.lon = i
		case cols.quantity < 0 && matchHeader(cell, quantityHeaders):
			cols.quantity = i
		case cols.name < 0 && matchHeader(cell, nameHeaders):
			cols.name = i
		case cols.address < 0 && matchHeader(cell, addressHeaders):
			cols.address = i
		}
	}

	if cols.lat < 0 || cols.lon < 0 {
		return cols, errors.New("no latitude/longitude columns detected in header row")
	}
	return cols, nil
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ImportCSV parses r, consolidates the rows and replaces the stored pickup
// points with the result.
//
// Rows with unparseable coordinates are skipped and counted, not fatal to the
// batch. Persistence failures after a successful parse degrade to warnings:
// the summary reports what was imported alongside what failed to store.
func (im *Importer) ImportCSV(ctx context.Context, r io.Reader) (_ ImportSummary, err error) {
	defer obs.Time(ctx, im.Log, "import.CSV")(&err)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return ImportSummary{}, fmt.Errorf("import csv: read header row: %w", err)
	}

	cols, err := detectColumns(header)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("import csv: %w", err)
	}

	records := make([]RawPoint, 0, 64)
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ImportSummary{}, fmt.Errorf("import csv: read row: %w", err)
		}

		lat, latErr := strconv.ParseFloat(cellAt(row, cols.lat), 64)
		lon, lonErr := strconv.ParseFloat(cellAt(row, cols.lon), 64)
		if latErr != nil || lonErr != nil {
			skipped++
			continue
		}

		// The quantity column is optional; anything unparseable counts as 1.
		quantity := 0
		if q, err := strconv.Atoi(cellAt(row, cols.quantity)); err == nil {
			quantity = q
		}

		records = append(records, RawPoint{
			Lat:      lat,
			Lon:      lon,
			Name:     cellAt(row, cols.name),
			Address:  cellAt(row, cols.address),
			Quantity: quantity,
		})
	}

	points, invalid := Consolidate(records, im.Box)
	skipped += invalid

	summary := ImportSummary{Skipped: skipped}

	if err := im.Points.DeleteAllPickupPoints(ctx); err != nil {
		warning := fmt.Sprintf("clear existing points: %v", err)
		im.log().Warn("import continuing after failed clear", "err", err)
		summary.Warnings = append(summary.Warnings, warning)
	}

	for _, p := range points {
		if _, err := im.Points.CreatePickupPoint(ctx, p); err != nil {
			warning := fmt.Sprintf("store point (%v, %v): %v", p.Latitude, p.Longitude, err)
			im.log().Warn("import point not stored",
				"lat", p.Latitude, "lon", p.Longitude, "err", err)
			summary.Warnings = append(summary.Warnings, warning)
			continue
		}
		summary.Imported++
	}

	return summary, nil
}

func (im *Importer) log() *slog.Logger {
	if im.Log != nil {
		return im.Log
	}
	return slog.Default()
}
