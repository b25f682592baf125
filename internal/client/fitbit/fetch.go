package fitbit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/vickgarcia/fitpull/internal/xslog"
)

// ErrNotAvailable marks a data point that could not be fetched after all
// retries. Callers continue with a hole in the data rather than failing the
// run.
var ErrNotAvailable = errors.New("resource not available")

// fetch issues one GET and drives the retry loop. Every response, whatever
// its status, refreshes the quota tracker. A 429 waits out the server-reported
// reset window and does not count as a failure; any other non-200 backs off
// for (attempt+1)*backoffFactor seconds. Exhausting maxRetries returns
// ErrNotAvailable and counts one failure for the resource. A transport-level
// fault is returned as-is and is fatal for the run.
func (c *Client) fetch(ctx context.Context, endpoint string, resource Resource) (go_json.RawMessage, error) {
	attempt := 0
	for attempt < c.maxRetries {
		body, status, reason, err := c.get(ctx, endpoint)
		if err != nil {
			return nil, fmt.Errorf("requesting %s: %w", resource, err)
		}

		switch {
		case status == http.StatusOK:
			c.counters.Success(resource)
			return body, nil

		case status == http.StatusTooManyRequests:
			reset := c.quota.Snapshot().ResetSeconds
			if reset < 0 {
				reset = 0
			}
			wait := time.Duration(reset+1) * time.Second
			c.logger.Info("rate limit reached, waiting for reset",
				xslog.Resource(string(resource)),
				xslog.Duration(wait),
			)
			c.sleep(wait)
			attempt++

		default:
			c.logger.Error("error fetching resource",
				xslog.Resource(string(resource)),
				xslog.Attempt(attempt+1),
				xslog.HTTPStatus(status),
				xslog.Reason(reason),
				xslog.Message(errorMessage(body)),
			)
			c.sleep(backoffDelay(attempt, c.backoffFactor))
			attempt++
		}
	}

	c.counters.Failure(resource)
	c.logger.Error("failed to fetch resource after retries",
		xslog.Resource(string(resource)),
		xslog.Count(c.maxRetries),
	)
	return nil, fmt.Errorf("%s: %w", resource, ErrNotAvailable)
}

// get performs a single request and updates the quota tracker from the
// response headers regardless of status.
func (c *Client) get(ctx context.Context, endpoint string) (body []byte, status int, reason string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, 0, "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, "", fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.quota.Update(resp.Header)

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, "", fmt.Errorf("reading response: %w", err)
	}

	return body, resp.StatusCode, resp.Status, nil
}

func backoffDelay(attempt int, factor float64) time.Duration {
	return time.Duration(float64(attempt+1) * factor * float64(time.Second))
}
