package fitbit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("parsing date %q: %v", s, err)
	}
	return d
}

func trackerWithRemaining(remaining string) *QuotaTracker {
	tracker := NewQuotaTracker()
	tracker.Update(makeHeaders("150", remaining, "3600"))
	return tracker
}

func TestRetrieveAdmissionControl(t *testing.T) {
	t.Parallel()
	// 6 resources x 5 days = 30 required requests.
	start := mustDate(t, "2023-03-01")
	end := mustDate(t, "2023-03-05")

	tests := []struct {
		name      string
		remaining string
		wantErr   bool
	}{
		{name: "insufficient quota aborts before any request", remaining: "20", wantErr: true},
		{name: "exact quota proceeds", remaining: "30", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var (
				mu    sync.Mutex
				calls int
			)
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				mu.Lock()
				calls++
				mu.Unlock()
				_, _ = w.Write([]byte(`{}`))
			})

			client, _ := newTestClient(t, handler, WithQuotaTracker(trackerWithRemaining(tt.remaining)))

			_, err := client.Retrieve(context.Background(), "user1", "device1", start, end)

			mu.Lock()
			got := calls
			mu.Unlock()

			if tt.wantErr {
				if !errors.Is(err, ErrQuotaExceeded) {
					t.Fatalf("Retrieve() error = %v, want ErrQuotaExceeded", err)
				}
				if got != 0 {
					t.Errorf("request count = %d, want 0 (abort must precede all requests)", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("Retrieve() error = %v", err)
			}
			if got != 30 {
				t.Errorf("request count = %d, want 30", got)
			}
		})
	}
}

func TestRetrieveBundlesPayloadsPerResource(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"path":"` + r.URL.Path + `"}`))
	})
	client, _ := newTestClient(t, handler, WithQuotaTracker(trackerWithRemaining("100")))

	start := mustDate(t, "2023-03-01")
	end := mustDate(t, "2023-03-02")

	bundle, err := client.Retrieve(context.Background(), "user1", "device1", start, end)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}

	if bundle.DeviceID != "device1" {
		t.Errorf("DeviceID = %q, want %q", bundle.DeviceID, "device1")
	}
	for _, resource := range TimeSeriesResources {
		if got := len(bundle.Payloads(resource)); got != 2 {
			t.Errorf("payloads for %s = %d, want 2", resource, got)
		}
	}

	// Payloads stay ordered by date within each resource.
	first := string(bundle.Steps[0])
	second := string(bundle.Steps[1])
	if !strings.Contains(first, "2023-03-01") || !strings.Contains(second, "2023-03-02") {
		t.Errorf("steps payloads out of order: %s, %s", first, second)
	}
}

func TestRetrieveDegradesOnResourceFailure(t *testing.T) {
	t.Parallel()

	// The steps endpoint always fails; everything else succeeds. The run
	// continues with a hole in the steps list.
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/activities/steps/") {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"errors":[{"message":"upstream unavailable"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})
	client, _ := newTestClient(t, handler, WithQuotaTracker(trackerWithRemaining("100")))

	start := mustDate(t, "2023-03-01")
	end := mustDate(t, "2023-03-02")

	bundle, err := client.Retrieve(context.Background(), "user1", "device1", start, end)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}

	if got := len(bundle.Steps); got != 0 {
		t.Errorf("steps payloads = %d, want 0", got)
	}
	if got := len(bundle.Sleep); got != 2 {
		t.Errorf("sleep payloads = %d, want 2", got)
	}
	if got := client.Counters().FailureFor(ResourceSteps); got != 2 {
		t.Errorf("steps failure counter = %d, want 2", got)
	}
}

func TestRetrieveTokenFaultIsFatal(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	failing := oauth2.ReuseTokenSource(nil, failingTokenSource{})
	client := New(failing,
		WithBaseURL(srv.URL),
		WithLogger(slog.New(slog.DiscardHandler)),
		WithQuotaTracker(trackerWithRemaining("100")),
	)
	client.sleep = func(time.Duration) {}

	start := mustDate(t, "2023-03-01")
	_, err := client.Retrieve(context.Background(), "user1", "device1", start, start)
	if err == nil {
		t.Fatal("Retrieve() error = nil, want transport fault")
	}
	if errors.Is(err, ErrNotAvailable) {
		t.Fatalf("Retrieve() error = %v, want run-fatal fault, not a degraded hole", err)
	}
}

type failingTokenSource struct{}

func (failingTokenSource) Token() (*oauth2.Token, error) {
	return nil, errors.New("token store unavailable")
}

func TestDaysInclusive(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{name: "same day", start: "2023-03-01", end: "2023-03-01", want: 1},
		{name: "five days", start: "2023-03-01", end: "2023-03-05", want: 5},
		{name: "across month boundary", start: "2023-02-27", end: "2023-03-02", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := daysInclusive(mustDate(t, tt.start), mustDate(t, tt.end))
			if got != tt.want {
				t.Errorf("daysInclusive() = %d, want %d", got, tt.want)
			}
		})
	}
}
