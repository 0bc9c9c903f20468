package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"pickup-route-service/internal/ports"
	"pickup-route-service/internal/services"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("encode failed",
			"method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeStrict decodes exactly one JSON object, rejecting unknown fields and
// trailing content.
func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

// writeServiceError maps the service and solver error taxonomy onto HTTP
// statuses. Local validation is the caller's fault; solver-side failures are
// upstream errors; a polling timeout asks the caller to retry later.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotEnoughPoints),
		errors.Is(err, services.ErrNoVehicles),
		errors.Is(err, services.ErrInvalidCoordinate),
		errors.Is(err, services.ErrNoStartLocation),
		errors.Is(err, services.ErrInvalidCapacity),
		errors.Is(err, services.ErrInvalidMaxDistance):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ports.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	var (
		rejected  *ports.RejectedError
		jobFailed *ports.JobFailedError
		noSol     *ports.NoSolutionError
		transport *ports.TransportError
		timeout   *ports.TimeoutError
	)
	switch {
	case errors.As(err, &rejected),
		errors.As(err, &jobFailed),
		errors.As(err, &noSol),
		errors.As(err, &transport):
		writeError(w, r, http.StatusBadGateway, err.Error())
	case errors.As(err, &timeout):
		writeError(w, r, http.StatusGatewayTimeout, err.Error())
	default:
		slog.Default().Error("unhandled request error",
			"method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
