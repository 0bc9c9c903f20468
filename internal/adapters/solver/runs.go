package solver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"pickup-route-service/internal/ports"
)

type runListItem struct {
	ID        string       `json:"id"`
	RunID     string       `json:"run_id"`
	Status    string       `json:"status"`
	CreatedAt string       `json:"created_at"`
	Metadata  *runMetadata `json:"metadata"`
}

// ListRuns returns previously submitted runs sorted by creation timestamp,
// newest first. Entries without a parseable timestamp sort last.
func (c *Client) ListRuns(ctx context.Context) ([]ports.RunSummary, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.runsURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, translateTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, translateTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf(
			"list runs: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)),
		)
	}

	items, err := normalizeRunList(body)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	summaries := make([]ports.RunSummary, 0, len(items))
	for _, it := range items {
		id := it.ID
		if id == "" {
			id = it.RunID
		}
		if id == "" {
			continue
		}

		status := it.Status
		createdAt := it.CreatedAt
		if it.Metadata != nil {
			if it.Metadata.Status != "" {
				status = it.Metadata.Status
			}
			if it.Metadata.CreatedAt != "" {
				createdAt = it.Metadata.CreatedAt
			}
		}

		// Unparseable timestamps stay zero and sink to the end.
		ts, _ := time.Parse(time.RFC3339, createdAt)

		summaries = append(summaries, ports.RunSummary{
			ID:        id,
			Status:    ports.ParseRunStatus(status),
			CreatedAt: ts,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	return summaries, nil
}

// The list endpoint has returned both a bare array and an object wrapping
// the array under "runs" or "items"; all three shapes normalize here.
func normalizeRunList(body []byte) ([]runListItem, error) {
	var items []runListItem
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}

	var wrapped struct {
		Runs  []runListItem `json:"runs"`
		Items []runListItem `json:"items"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("unrecognized run list shape: %w", err)
	}

	if len(wrapped.Runs) > 0 {
		return wrapped.Runs, nil
	}
	return wrapped.Items, nil
}
