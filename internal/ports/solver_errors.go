package ports

import "fmt"

// Error taxonomy reported by RouteSolver implementations. Handlers map these
// onto user-facing responses; none of them is retried automatically.

// TransportError is a network-level failure reaching the solver (timeout,
// DNS, refused connection). Cause is already human-readable.
type TransportError struct {
	Cause string
	Err   error
}

func (e *TransportError) Error() string { return "solver unreachable: " + e.Cause }
func (e *TransportError) Unwrap() error { return e.Err }

// RejectedError is a non-2xx response to a submission. Detail carries the
// solver's structured validation output (message, field errors, validation
// errors) verbatim; it is the primary debugging signal for a malformed
// request and must never be summarized away.
type RejectedError struct {
	Code   int
	Detail string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("solver rejected request (status %d): %s", e.Code, e.Detail)
}

// JobFailedError is a run that reached a terminal failed or error status
// while polling. The two statuses are treated as a single terminal class.
type JobFailedError struct {
	RunID   string
	Status  RunStatus
	Message string
}

func (e *JobFailedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("run %s ended with status %q", e.RunID, e.Status)
	}
	return fmt.Sprintf("run %s ended with status %q: %s", e.RunID, e.Status, e.Message)
}

// TimeoutError means the polling ceiling was exhausted without a terminal
// status. Distinct from JobFailedError: the run may still complete, and the
// user should retry.
type TimeoutError struct {
	RunID    string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("run %s did not finish after %d polling attempts; try again later", e.RunID, e.Attempts)
}

// NoSolutionError means the run succeeded but returned an empty solutions
// collection. Not treated as success.
type NoSolutionError struct {
	RunID string
}

func (e *NoSolutionError) Error() string {
	if e.RunID == "" {
		return "solver returned no solutions"
	}
	return fmt.Sprintf("run %s returned no solutions", e.RunID)
}
