package dto

import "time"

type RunResponse struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type ListRunsResponse struct {
	Runs    []RunResponse `json:"runs"`
	Stale   bool          `json:"stale,omitempty"`
	Warning string        `json:"warning,omitempty"`
}
