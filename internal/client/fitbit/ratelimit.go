package fitbit

import (
	"net/http"
	"strconv"
	"sync"
)

// Quota is an immutable snapshot of the server-reported request budget.
// Remaining is advisory: the server refreshes it on every response and it is
// never decremented locally.
type Quota struct {
	Limit        int
	Remaining    int
	ResetSeconds int
}

const (
	// Header keys use canonical form (http.CanonicalHeaderKey).
	// See https://dev.fitbit.com/build/reference/web-api/troubleshooting-guide/rate-limits/
	limitHeaderKey     = "Fitbit-Rate-Limit-Limit"
	remainingHeaderKey = "Fitbit-Rate-Limit-Remaining"
	resetHeaderKey     = "Fitbit-Rate-Limit-Reset"
)

// defaultHourlyQuota seeds the tracker before the first response arrives,
// matching the personal-app budget Fitbit advertises.
const defaultHourlyQuota = 150

// QuotaTracker holds the rate-limit state shared by every outbound call in a
// run. Access is serialized: admission control reads Remaining while the
// fetch loop writes it from response headers.
type QuotaTracker struct {
	mu    sync.Mutex
	quota Quota
}

func NewQuotaTracker() *QuotaTracker {
	return &QuotaTracker{
		quota: Quota{
			Limit:     defaultHourlyQuota,
			Remaining: defaultHourlyQuota,
		},
	}
}

// Update refreshes the tracked quota from response headers. A header that is
// absent or unparsable leaves the previous value unchanged.
func (t *QuotaTracker) Update(headers http.Header) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if v, ok := headerInt(headers, limitHeaderKey); ok {
		t.quota.Limit = v
	}
	if v, ok := headerInt(headers, remainingHeaderKey); ok {
		t.quota.Remaining = v
	}
	if v, ok := headerInt(headers, resetHeaderKey); ok {
		t.quota.ResetSeconds = v
	}
}

func (t *QuotaTracker) Snapshot() Quota {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.quota
}

func headerInt(headers http.Header, key string) (int, bool) {
	s := headers.Get(key)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
