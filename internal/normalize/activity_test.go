package normalize

import (
	"testing"

	go_json "github.com/goccy/go-json"
)

func TestSteps(t *testing.T) {
	t.Parallel()

	payload := go_json.RawMessage(`{"activities-steps":[{"dateTime":"2023-03-05","value":"9123"}]}`)

	table, err := testExtractor().Steps([]go_json.RawMessage{payload})
	if err != nil {
		t.Fatalf("Steps() error = %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("table has %d rows, want 1", table.Len())
	}
	row := table.Rows[0]
	if row[ColDevice] != "dev1" || row[ColDate] != "05/03/2023" || row["TotalSteps"] != 9123 {
		t.Errorf("row = %v", row)
	}
}

func TestCalories(t *testing.T) {
	t.Parallel()

	payload := go_json.RawMessage(`{"activities-calories":[{"dateTime":"2023-03-05","value":"2241.57"}]}`)

	table, err := testExtractor().Calories([]go_json.RawMessage{payload})
	if err != nil {
		t.Fatalf("Calories() error = %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("table has %d rows, want 1", table.Len())
	}
	if got := table.Rows[0]["Values_calorias quemadas"]; got != 2241 {
		t.Errorf("calories = %v, want 2241", got)
	}
}

func TestCoerceInt(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want int
	}{
		{"9123", 9123},
		{"2241.57", 2241},
		{"0", 0},
		{"", 0},
		{"abc", 0},
	}

	for _, tt := range tests {
		if got := coerceInt(tt.in); got != tt.want {
			t.Errorf("coerceInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
