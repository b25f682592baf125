package normalize

import (
	"testing"

	go_json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func TestRestingHeartRateSkipsDatesWithoutValue(t *testing.T) {
	t.Parallel()

	withValue := go_json.RawMessage(`{"activities-heart":[{"dateTime":"2023-03-05","value":{"restingHeartRate":58}}]}`)
	withoutValue := go_json.RawMessage(`{"activities-heart":[{"dateTime":"2023-03-06","value":{}}]}`)

	table, err := testExtractor().RestingHeartRate([]go_json.RawMessage{withValue, withoutValue})
	if err != nil {
		t.Fatalf("RestingHeartRate() error = %v", err)
	}

	if table.Len() != 1 {
		t.Fatalf("table has %d rows, want 1", table.Len())
	}
	row := table.Rows[0]
	if row[ColDate] != "05/03/2023" || row["RestingHeartRate"] != 58 {
		t.Errorf("row = %v", row)
	}
}

func TestHeartRateZones(t *testing.T) {
	t.Parallel()

	payload := go_json.RawMessage(`{
		"activities-heart": [{
			"dateTime": "2023-03-05",
			"value": {
				"heartRateZones": [
					{"name": "Out of Range", "min": 30, "max": 98, "caloriesOut": 1504.34161, "minutes": 1200},
					{"name": "Fat Burn", "min": 98, "max": 137, "caloriesOut": 400.5, "minutes": 200}
				]
			}
		}]
	}`)

	table, err := testExtractor().HeartRateZones([]go_json.RawMessage{payload})
	if err != nil {
		t.Fatalf("HeartRateZones() error = %v", err)
	}

	wantColumns := []string{
		ColDevice, ColDate,
		"OutofRange_Min", "OutofRange_Max", "OutofRange_CaloriesOut", "OutofRange_Minutes",
		"FatBurn_Min", "FatBurn_Max", "FatBurn_CaloriesOut", "FatBurn_Minutes",
	}
	if diff := cmp.Diff(wantColumns, table.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	if table.Len() != 1 {
		t.Fatalf("table has %d rows, want 1", table.Len())
	}
	row := table.Rows[0]

	checks := map[string]any{
		"OutofRange_Min":         30,
		"OutofRange_Max":         98,
		"OutofRange_CaloriesOut": 1504.3416,
		"OutofRange_Minutes":     1200,
		"FatBurn_CaloriesOut":    400.5,
	}
	for col, want := range checks {
		if got := row[col]; got != want {
			t.Errorf("%s = %v, want %v", col, got, want)
		}
	}
}
