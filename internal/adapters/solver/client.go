package solver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"pickup-route-service/internal/ports"
)

const (
	defaultBaseURL = "https://api.cloud.nextmv.io"

	// Hard per-call timeout; the coarser polling ceiling is
	// maxPollAttempts * pollInterval (~10 minutes).
	requestTimeout  = 30 * time.Second
	pollInterval    = 10 * time.Second
	maxPollAttempts = 60
)

// Client implements ports.RouteSolver against a Nextmv-style cloud
// optimization API.
//
// It coordinates:
//   - Run submission with a bounded per-call timeout
//   - Fixed-interval polling with a bounded attempt count
//   - Run history listing with response-shape normalization
//
// The client is safe for concurrent use. Concurrent submissions are
// independent; the caller is responsible for not double-submitting the same
// logical request.
type Client struct {
	session      *http.Client
	apiKey       string
	appID        string
	baseURL      string
	pollInterval time.Duration
	maxAttempts  int
	log          *slog.Logger
}

var _ ports.RouteSolver = (*Client)(nil)

func NewClient(apiKey, appID string, log *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("solver api key is empty")
	}
	if appID == "" {
		return nil, errors.New("solver application id is empty")
	}
	if log == nil {
		log = slog.Default()
	}

	client := &Client{
		session:      &http.Client{Timeout: requestTimeout},
		apiKey:       apiKey,
		appID:        appID,
		baseURL:      defaultBaseURL,
		pollInterval: pollInterval,
		maxAttempts:  maxPollAttempts,
		log:          log,
	}

	return client, nil
}

func (c *Client) runsURL() string {
	return c.baseURL + "/v1/applications/" + c.appID + "/runs"
}

func (c *Client) runURL(runID string) string {
	return c.runsURL() + "/" + runID
}

func (c *Client) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// translateTransport converts low-level transport failures into a
// TransportError whose cause a user can act on. The initiating request is
// never retried automatically.
func translateTransport(err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &ports.TransportError{
			Cause: fmt.Sprintf("cannot resolve host %q; check network access", dnsErr.Name),
			Err:   err,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ports.TransportError{
			Cause: "the request to the optimization service timed out; try again",
			Err:   err,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &ports.TransportError{
			Cause: "the request to the optimization service timed out; try again",
			Err:   err,
		}
	}

	return &ports.TransportError{
		Cause: "cannot reach the optimization service: " + err.Error(),
		Err:   err,
	}
}
