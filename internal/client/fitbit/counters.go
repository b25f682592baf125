package fitbit

import (
	"log/slog"
	"sync"

	"github.com/vickgarcia/fitpull/internal/xslog"
)

// Counters tracks per-resource request outcomes for the run summary.
type Counters struct {
	mu      sync.Mutex
	total   int
	success map[Resource]int
	failure map[Resource]int
}

func NewCounters() *Counters {
	return &Counters{
		success: make(map[Resource]int),
		failure: make(map[Resource]int),
	}
}

func (c *Counters) Success(r Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.success[r]++
	c.total++
}

func (c *Counters) Failure(r Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failure[r]++
	c.total++
}

func (c *Counters) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

func (c *Counters) SuccessFor(r Resource) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.success[r]
}

func (c *Counters) FailureFor(r Resource) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure[r]
}

// LogSummary writes the per-resource outcome counts and the final quota
// snapshot at the end of a retrieval run.
func (c *Counters) LogSummary(logger *slog.Logger, quota Quota) {
	c.mu.Lock()
	defer c.mu.Unlock()

	logger.Info("request summary", slog.Int("total", c.total))
	for _, r := range append(TimeSeriesResources, ResourceDevices) {
		logger.Info("resource summary",
			xslog.Resource(string(r)),
			slog.Int("success", c.success[r]),
			slog.Int("failed", c.failure[r]),
		)
	}
	logger.Info("rate limit",
		slog.Int("limit", quota.Limit),
		xslog.Remaining(quota.Remaining),
		slog.Int("reset_seconds", quota.ResetSeconds),
	)
}
