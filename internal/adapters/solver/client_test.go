package solver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"pickup-route-service/internal/ports"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	c, err := NewClient("test-key", "test-app", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	c.baseURL = baseURL
	c.pollInterval = time.Millisecond
	return c
}

func testRequest() ports.OptimizationRequest {
	return ports.OptimizationRequest{
		Options: ports.RequestOptions{SolveDuration: "10s"},
		Input: ports.OptimizationInput{
			Stops: []ports.Stop{
				{ID: "a", Location: ports.Location{Lon: 1, Lat: 1}, Quantity: -1},
				{ID: "b", Location: ports.Location{Lon: 2, Lat: 2}, Quantity: -1},
			},
			Vehicles: []ports.RequestVehicle{
				{ID: "v1", StartLocation: ports.Location{Lon: 1, Lat: 1}, Capacity: 10, MaxDistance: 50000, Speed: 10},
			},
		},
	}
}

func TestSolvePollsUntilSucceeded(t *testing.T) {
	var gets atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/applications/test-app/runs", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header = %q", got)
		}
		fmt.Fprint(w, `{"run_id":"run-1"}`)
	})
	mux.HandleFunc("GET /v1/applications/test-app/runs/run-1", func(w http.ResponseWriter, r *http.Request) {
		switch gets.Add(1) {
		case 1, 2:
			fmt.Fprint(w, `{"metadata":{"status":"running"}}`)
		default:
			fmt.Fprint(w, `{
				"metadata": {"status": "succeeded"},
				"output": {"solutions": [{"vehicles": [
					{"id": "v1", "route_travel_distance": 1200.5, "route_travel_duration": 300},
					{"id": "v2", "route_duration": 90}
				]}]}
			}`)
		}
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	sol, err := newTestClient(t, ts.URL).Solve(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := gets.Load(); got != 3 {
		t.Fatalf("poll attempts = %d, want 3", got)
	}
	if sol.RunID != "run-1" {
		t.Fatalf("run id = %q, want run-1", sol.RunID)
	}
	if len(sol.Vehicles) != 2 {
		t.Fatalf("vehicles = %d, want 2", len(sol.Vehicles))
	}
	if sol.Vehicles[0].RouteDistance != 1200.5 || sol.Vehicles[0].RouteDuration != 300 {
		t.Fatalf("vehicle 0 metrics = %v/%v", sol.Vehicles[0].RouteDistance, sol.Vehicles[0].RouteDuration)
	}
	// route_duration is the fallback duration field; distance defaults to 0.
	if sol.Vehicles[1].RouteDistance != 0 || sol.Vehicles[1].RouteDuration != 90 {
		t.Fatalf("vehicle 1 metrics = %v/%v", sol.Vehicles[1].RouteDistance, sol.Vehicles[1].RouteDuration)
	}
}

func TestSolveSynchronousResponse(t *testing.T) {
	var gets atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/applications/test-app/runs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"solutions":[{"vehicles":[{"id":"v1","route_travel_distance":10}]}]}`)
	})
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		gets.Add(1)
		http.NotFound(w, r)
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	sol, err := newTestClient(t, ts.URL).Solve(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gets.Load() != 0 {
		t.Fatalf("expected no polling for a synchronous response")
	}
	if len(sol.Vehicles) != 1 || sol.Vehicles[0].ID != "v1" {
		t.Fatalf("unexpected solution: %+v", sol)
	}
}

func TestSolveRejectedSurfacesDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{
			"message": "input is invalid",
			"validation_errors": [{"field": "vehicles[0].capacity", "error": "must be positive"}],
			"field_errors": {"stops": "at least two required"}
		}`)
	}))
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).Solve(context.Background(), testRequest())

	var rejected *ports.RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if rejected.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rejected.Code)
	}
	for _, want := range []string{"input is invalid", "must be positive", "at least two required"} {
		if !strings.Contains(rejected.Detail, want) {
			t.Fatalf("detail %q does not contain %q", rejected.Detail, want)
		}
	}
}

func TestSolveJobFailed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/applications/test-app/runs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"run-9"}`)
	})
	mux.HandleFunc("GET /v1/applications/test-app/runs/run-9", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"metadata":{"status":"failed"},"error":"no feasible assignment"}`)
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).Solve(context.Background(), testRequest())

	var failed *ports.JobFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected JobFailedError, got %v", err)
	}
	if failed.Status != ports.RunFailed {
		t.Fatalf("status = %q, want failed", failed.Status)
	}
	if !strings.Contains(failed.Message, "no feasible assignment") {
		t.Fatalf("message = %q", failed.Message)
	}
}

func TestSolveTimeoutAfterMaxAttempts(t *testing.T) {
	var gets atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/applications/test-app/runs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"run-2"}`)
	})
	mux.HandleFunc("GET /v1/applications/test-app/runs/run-2", func(w http.ResponseWriter, r *http.Request) {
		gets.Add(1)
		fmt.Fprint(w, `{"metadata":{"status":"queued"}}`)
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	c.maxAttempts = 5

	_, err := c.Solve(context.Background(), testRequest())

	var timeout *ports.TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if timeout.Attempts != 5 {
		t.Fatalf("attempts = %d, want 5", timeout.Attempts)
	}
	if got := gets.Load(); got != 5 {
		t.Fatalf("poll attempts = %d, want 5", got)
	}
}

func TestSolveNoSolution(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/applications/test-app/runs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"run-3"}`)
	})
	mux.HandleFunc("GET /v1/applications/test-app/runs/run-3", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"metadata":{"status":"succeeded"},"output":{"solutions":[]}}`)
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).Solve(context.Background(), testRequest())

	var noSol *ports.NoSolutionError
	if !errors.As(err, &noSol) {
		t.Fatalf("expected NoSolutionError, got %v", err)
	}
	if noSol.RunID != "run-3" {
		t.Fatalf("run id = %q, want run-3", noSol.RunID)
	}
}

func TestSolveCancelledDuringPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/applications/test-app/runs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"run-4"}`)
	})
	mux.HandleFunc("GET /v1/applications/test-app/runs/run-4", func(w http.ResponseWriter, r *http.Request) {
		cancel()
		fmt.Fprint(w, `{"metadata":{"status":"running"}}`)
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).Solve(ctx, testRequest())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSolveTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // refuse all connections

	_, err := newTestClient(t, ts.URL).Solve(context.Background(), testRequest())

	var transport *ports.TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transport.Cause == "" {
		t.Fatal("transport error cause is empty")
	}
}

func TestListRunsNormalizesShapes(t *testing.T) {
	const wrapped = `{"runs": [
		{"id": "old", "metadata": {"status": "succeeded", "created_at": "2026-01-01T08:00:00Z"}},
		{"id": "new", "metadata": {"status": "running", "created_at": "2026-02-01T08:00:00Z"}},
		{"id": "undated", "status": "queued"}
	]}`
	const bare = `[
		{"id": "old", "metadata": {"status": "succeeded", "created_at": "2026-01-01T08:00:00Z"}},
		{"id": "new", "metadata": {"status": "running", "created_at": "2026-02-01T08:00:00Z"}},
		{"id": "undated", "status": "queued"}
	]`

	for name, payload := range map[string]string{"wrapped": wrapped, "bare": bare} {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, payload)
			}))
			defer ts.Close()

			runs, err := newTestClient(t, ts.URL).ListRuns(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(runs) != 3 {
				t.Fatalf("runs = %d, want 3", len(runs))
			}
			// Newest first; the run without a timestamp sorts last.
			if runs[0].ID != "new" || runs[1].ID != "old" || runs[2].ID != "undated" {
				t.Fatalf("order = %s,%s,%s", runs[0].ID, runs[1].ID, runs[2].ID)
			}
			if runs[0].Status != ports.RunRunning || runs[2].Status != ports.RunQueued {
				t.Fatalf("statuses = %q,%q", runs[0].Status, runs[2].Status)
			}
		})
	}
}

func TestRunSolutionFetchesExistingRun(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/applications/test-app/runs/run-7", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"metadata":{"status":"succeeded"},"output":{"solutions":[{"vehicles":[{"id":"v1"}]}]}}`)
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	sol, err := newTestClient(t, ts.URL).RunSolution(context.Background(), "run-7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sol.RunID != "run-7" || len(sol.Vehicles) != 1 {
		t.Fatalf("unexpected solution: %+v", sol)
	}
}
