package solver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pickup-route-service/internal/ports"
)

type runEnvelope struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"`
	Error     string             `json:"error"`
	Message   string             `json:"message"`
	Metadata  *runMetadata       `json:"metadata"`
	Output    *runOutput         `json:"output"`
	Solutions []solutionEnvelope `json:"solutions"`
}

type runMetadata struct {
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	Error     string `json:"error"`
}

type runOutput struct {
	Solutions []solutionEnvelope `json:"solutions"`
}

type solutionEnvelope struct {
	Vehicles []json.RawMessage `json:"vehicles"`
}

// The status field lives under metadata on the async API and at the top
// level on older responses.
func (e *runEnvelope) status() ports.RunStatus {
	if e.Metadata != nil && e.Metadata.Status != "" {
		return ports.ParseRunStatus(e.Metadata.Status)
	}
	return ports.ParseRunStatus(e.Status)
}

func (e *runEnvelope) errorMessage() string {
	switch {
	case e.Error != "":
		return e.Error
	case e.Message != "":
		return e.Message
	case e.Metadata != nil && e.Metadata.Error != "":
		return e.Metadata.Error
	}
	return ""
}

func (e *runEnvelope) solutionList() []solutionEnvelope {
	if e.Output != nil && len(e.Output.Solutions) > 0 {
		return e.Output.Solutions
	}
	return e.Solutions
}

// waitForRun polls the run resource on a fixed interval until it reaches a
// terminal status or the attempt ceiling is exhausted.
//
// A transient fetch error on a single attempt is not terminal: the loop
// sleeps and retries like any non-terminal status. Cancelling ctx stops
// polling cleanly before the next attempt or mid-sleep; no state is
// committed on cancellation.
func (c *Client) waitForRun(ctx context.Context, runID string) (ports.Solution, error) {
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return ports.Solution{}, err
		}

		env, body, err := c.fetchRun(ctx, runID)
		if err != nil {
			if ctx.Err() != nil {
				return ports.Solution{}, ctx.Err()
			}
			c.log.Warn("poll attempt failed",
				"run_id", runID, "attempt", attempt, "err", err)
		} else {
			switch status := env.status(); {
			case status == ports.RunSucceeded:
				return solutionFromRun(body, runID)
			case status == ports.RunFailed || status == ports.RunError:
				return ports.Solution{}, &ports.JobFailedError{
					RunID:   runID,
					Status:  status,
					Message: env.errorMessage(),
				}
			default:
				c.log.Debug("run still processing",
					"run_id", runID, "status", status, "attempt", attempt)
			}
		}

		if attempt == c.maxAttempts {
			break
		}

		timer := time.NewTimer(c.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ports.Solution{}, ctx.Err()
		case <-timer.C:
		}
	}

	return ports.Solution{}, &ports.TimeoutError{RunID: runID, Attempts: c.maxAttempts}
}

func (c *Client) fetchRun(ctx context.Context, runID string) (*runEnvelope, []byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.runURL(runID), nil)
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, nil, translateTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, translateTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf(
			"fetch run %s: status %d: %s",
			runID, resp.StatusCode, strings.TrimSpace(string(body)),
		)
	}

	var env runEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, nil, fmt.Errorf("fetch run %s: decode response: %w", runID, err)
	}

	return &env, body, nil
}

// RunSolution fetches a previously submitted run and extracts its solution
// (the replay path for run history).
func (c *Client) RunSolution(ctx context.Context, runID string) (ports.Solution, error) {
	if runID == "" {
		return ports.Solution{}, errors.New("run solution: run id is empty")
	}

	_, body, err := c.fetchRun(ctx, runID)
	if err != nil {
		return ports.Solution{}, fmt.Errorf("run solution: %w", err)
	}

	return solutionFromRun(body, runID)
}

// Per-vehicle metric fields; duration has appeared under two names.
type solutionVehicleMetrics struct {
	ID                  string   `json:"id"`
	RouteTravelDistance *float64 `json:"route_travel_distance"`
	RouteTravelDuration *float64 `json:"route_travel_duration"`
	RouteDuration       *float64 `json:"route_duration"`
}

// solutionFromRun extracts the first solution of a run body. A nominally
// succeeded run without solutions is an error, not a success.
func solutionFromRun(body []byte, runID string) (ports.Solution, error) {
	var env runEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ports.Solution{}, fmt.Errorf("decode run result: %w", err)
	}

	if runID == "" {
		runID = env.ID
	}

	sols := env.solutionList()
	if len(sols) == 0 {
		return ports.Solution{}, &ports.NoSolutionError{RunID: runID}
	}

	// The solver orders solutions best-first; only the first is reconciled.
	first := sols[0]

	out := ports.Solution{
		RunID:    runID,
		Vehicles: make([]ports.SolutionVehicle, 0, len(first.Vehicles)),
	}
	for _, raw := range first.Vehicles {
		var m solutionVehicleMetrics
		if err := json.Unmarshal(raw, &m); err != nil {
			return ports.Solution{}, fmt.Errorf("decode solution vehicle: %w", err)
		}

		sv := ports.SolutionVehicle{ID: m.ID, Raw: raw}
		if m.RouteTravelDistance != nil {
			sv.RouteDistance = *m.RouteTravelDistance
		}
		switch {
		case m.RouteTravelDuration != nil:
			sv.RouteDuration = *m.RouteTravelDuration
		case m.RouteDuration != nil:
			sv.RouteDuration = *m.RouteDuration
		}

		out.Vehicles = append(out.Vehicles, sv)
	}

	return out, nil
}
