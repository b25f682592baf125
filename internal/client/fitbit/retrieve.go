package fitbit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/vickgarcia/fitpull/internal/xslog"
)

// ErrQuotaExceeded means the pre-flight admission check refused the batch:
// issuing it would burn the remaining quota on a range that is guaranteed to
// be truncated.
var ErrQuotaExceeded = errors.New("remaining request quota is insufficient for the requested range")

// Bundle holds one run's raw daily payloads, ordered by date within each
// resource. A day that failed to fetch is simply absent from that resource's
// list.
type Bundle struct {
	DeviceID string               `json:"device_id"`
	Steps    []go_json.RawMessage `json:"steps"`
	Heart    []go_json.RawMessage `json:"heart"`
	Calories []go_json.RawMessage `json:"calories"`
	Sleep    []go_json.RawMessage `json:"sleep"`
	SpO2     []go_json.RawMessage `json:"spo2"`
	Rate     []go_json.RawMessage `json:"rate"`
}

func (b *Bundle) append(resource Resource, payload go_json.RawMessage) {
	switch resource {
	case ResourceSteps:
		b.Steps = append(b.Steps, payload)
	case ResourceHeart:
		b.Heart = append(b.Heart, payload)
	case ResourceCalories:
		b.Calories = append(b.Calories, payload)
	case ResourceSleep:
		b.Sleep = append(b.Sleep, payload)
	case ResourceSpO2:
		b.SpO2 = append(b.SpO2, payload)
	case ResourceRate:
		b.Rate = append(b.Rate, payload)
	}
}

// Payloads returns the ordered daily payload list for one resource.
func (b *Bundle) Payloads(resource Resource) []go_json.RawMessage {
	switch resource {
	case ResourceSteps:
		return b.Steps
	case ResourceHeart:
		return b.Heart
	case ResourceCalories:
		return b.Calories
	case ResourceSleep:
		return b.Sleep
	case ResourceSpO2:
		return b.SpO2
	case ResourceRate:
		return b.Rate
	default:
		return nil
	}
}

// Retrieve fetches every time-series resource for each day in the inclusive
// range, dates outer and resources inner, strictly sequentially. Individual
// day/resource failures leave holes; only admission denial or a transport
// fault aborts the run.
func (c *Client) Retrieve(ctx context.Context, userID, deviceID string, start, end time.Time) (*Bundle, error) {
	days := daysInclusive(start, end)
	if days <= 0 {
		return nil, fmt.Errorf("invalid date range: %s to %s", start.Format(DateLayout), end.Format(DateLayout))
	}

	if err := c.checkAdmission(len(TimeSeriesResources) * days); err != nil {
		return nil, err
	}

	bundle := &Bundle{DeviceID: deviceID}
	total := days * len(TimeSeriesResources)
	done := 0

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(DateLayout)
		for _, resource := range TimeSeriesResources {
			payload, err := c.fetch(ctx, endpointFor(userID, resource, date), resource)
			done++
			if err != nil {
				if errors.Is(err, ErrNotAvailable) {
					continue
				}
				return nil, err
			}
			if len(payload) > 0 {
				bundle.append(resource, payload)
			}
			c.logger.Debug("fetched resource",
				xslog.Resource(string(resource)),
				xslog.Date(date),
				xslog.Count(done),
				slog.Int("total", total),
			)
		}
	}

	c.counters.LogSummary(c.logger, c.quota.Snapshot())
	return bundle, nil
}

// checkAdmission refuses to start a batch whose request count exceeds the
// server-reported remaining quota.
func (c *Client) checkAdmission(required int) error {
	quota := c.quota.Snapshot()
	if required > quota.Remaining {
		return fmt.Errorf("%w: need %d, %d remaining", ErrQuotaExceeded, required, quota.Remaining)
	}
	return nil
}

func daysInclusive(start, end time.Time) int {
	start = start.Truncate(24 * time.Hour)
	end = end.Truncate(24 * time.Hour)
	return int(end.Sub(start).Hours()/24) + 1
}
