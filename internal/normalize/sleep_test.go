package normalize

import (
	"testing"

	go_json "github.com/goccy/go-json"
)

func sleepJSON(t *testing.T, entries ...map[string]any) go_json.RawMessage {
	t.Helper()
	raw, err := go_json.Marshal(map[string]any{"sleep": entries})
	if err != nil {
		t.Fatalf("marshaling sleep payload: %v", err)
	}
	return raw
}

func mainSleepEntry(date string, logID int64) map[string]any {
	return map[string]any{
		"dateOfSleep":   date,
		"logId":         logID,
		"startTime":     date + "T23:10:00.000",
		"endTime":       date + "T07:15:00.000",
		"duration":      29100000,
		"efficiency":    92,
		"minutesAsleep": 425,
		"minutesAwake":  60,
		"timeInBed":     485,
		"isMainSleep":   true,
		"type":          "stages",
		"levels": map[string]any{
			"summary": map[string]any{
				"deep":  map[string]any{"minutes": 90, "count": 4, "thirtyDayAvgMinutes": 85},
				"wake":  map[string]any{"minutes": 60, "count": 20, "thirtyDayAvgMinutes": 55},
				"light": map[string]any{"minutes": 200, "count": 25, "thirtyDayAvgMinutes": 210},
				"rem":   map[string]any{"minutes": 135, "count": 6, "thirtyDayAvgMinutes": 120},
			},
		},
	}
}

func TestSleepRow(t *testing.T) {
	t.Parallel()

	table, err := testExtractor().Sleep([]go_json.RawMessage{
		sleepJSON(t, mainSleepEntry("2023-03-05", 41234567890)),
	})
	if err != nil {
		t.Fatalf("Sleep() error = %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("table has %d rows, want 1", table.Len())
	}
	row := table.Rows[0]

	checks := map[string]any{
		ColDevice: "dev1",
		ColLogID:  int64(41234567890),
		ColDate:   "05/03/2023",

		"minutesAsleep": 425,
		"isMainSleep":   true,
		"type":          "stages",

		"deep_minutes":             90,
		"deep_count":               4,
		"deep_thirtyDayAvgMinutes": 85,
		"rem_minutes":              135,

		"minutesAsleep_hours":    7.1,
		"minutesAsleep_readable": "7 hours 5 minutes",
		"minutesAwake_readable":  "1 hours 0 minutes",
		"timeInBed_readable":     "8 hours 5 minutes",
		"deep_minutes_readable":  "1 hours 30 minutes",
		"light_minutes_readable": "3 hours 20 minutes",
	}
	for col, want := range checks {
		if got := row[col]; got != want {
			t.Errorf("%s = %v (%T), want %v (%T)", col, got, got, want, want)
		}
	}
}

func TestSleepKeepsOnlyFirstMainSleepPerDate(t *testing.T) {
	t.Parallel()

	first := mainSleepEntry("2023-03-05", 100)
	duplicate := mainSleepEntry("2023-03-05", 200)
	nap := mainSleepEntry("2023-03-05", 300)
	nap["isMainSleep"] = false
	other := mainSleepEntry("2023-03-06", 400)

	table, err := testExtractor().Sleep([]go_json.RawMessage{
		sleepJSON(t, first, duplicate, nap),
		sleepJSON(t, other),
	})
	if err != nil {
		t.Fatalf("Sleep() error = %v", err)
	}

	if table.Len() != 2 {
		t.Fatalf("table has %d rows, want 2", table.Len())
	}
	if got := table.Rows[0][ColLogID]; got != int64(100) {
		t.Errorf("first row logId = %v, want 100 (first main sleep wins)", got)
	}
	if got := table.Rows[1][ColLogID]; got != int64(400) {
		t.Errorf("second row logId = %v, want 400", got)
	}
}

func TestSleepEmptyPayloads(t *testing.T) {
	t.Parallel()

	table, err := testExtractor().Sleep(nil)
	if err != nil {
		t.Fatalf("Sleep() error = %v", err)
	}
	if !table.Empty() {
		t.Errorf("table has %d rows, want 0", table.Len())
	}
	if !table.HasColumn(ColLogID) {
		t.Error("logId column missing from empty table")
	}
}
