package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"pickup-route-service/internal/ports"
)

// Solve submits the request as a run and blocks until a terminal outcome.
//
// The API has two response patterns: a body carrying a run id ("id" or
// "run_id"), which requires polling, or a body that already is the final
// result. Both are handled here so callers never see the difference.
func (c *Client) Solve(ctx context.Context, req ports.OptimizationRequest) (ports.Solution, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return ports.Solution{}, fmt.Errorf("solve: encode request: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, c.runsURL(), bytes.NewReader(payload))
	if err != nil {
		return ports.Solution{}, fmt.Errorf("solve: %w", err)
	}

	resp, err := c.session.Do(httpReq)
	if err != nil {
		return ports.Solution{}, translateTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.Solution{}, translateTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ports.Solution{}, &ports.RejectedError{
			Code:   resp.StatusCode,
			Detail: rejectionDetail(body),
		}
	}

	runID := runIDFromBody(body)
	if runID == "" {
		// Synchronous pattern: the response body is the final result.
		return solutionFromRun(body, "")
	}

	c.log.Info("run submitted", "run_id", runID)

	return c.waitForRun(ctx, runID)
}

func runIDFromBody(body []byte) string {
	var ref struct {
		ID    string `json:"id"`
		RunID string `json:"run_id"`
	}
	if err := json.Unmarshal(body, &ref); err != nil {
		return ""
	}

	if ref.ID != "" {
		return ref.ID
	}
	return ref.RunID
}

// The solver's rejection bodies vary in shape. Every recognized field is
// collected verbatim into one readable report; nothing is summarized away.
type rejectionBody struct {
	Message          string          `json:"message"`
	Error            json.RawMessage `json:"error"`
	Details          json.RawMessage `json:"details"`
	ValidationErrors json.RawMessage `json:"validation_errors"`
	FieldErrors      json.RawMessage `json:"field_errors"`
}

func rejectionDetail(body []byte) string {
	trimmed := strings.TrimSpace(string(body))

	var rb rejectionBody
	if err := json.Unmarshal(body, &rb); err != nil {
		if trimmed == "" {
			return "no detail provided"
		}
		return trimmed
	}

	parts := make([]string, 0, 5)
	if rb.Message != "" {
		parts = append(parts, rb.Message)
	}
	if s := rawDetail(rb.Error); s != "" {
		parts = append(parts, "error: "+s)
	}
	if s := rawDetail(rb.Details); s != "" {
		parts = append(parts, "details: "+s)
	}
	if s := rawDetail(rb.ValidationErrors); s != "" {
		parts = append(parts, "validation errors: "+s)
	}
	if s := rawDetail(rb.FieldErrors); s != "" {
		parts = append(parts, "field errors: "+s)
	}

	if len(parts) == 0 {
		if trimmed == "" {
			return "no detail provided"
		}
		return trimmed
	}

	return strings.Join(parts, "; ")
}

func rawDetail(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
