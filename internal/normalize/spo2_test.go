package normalize

import (
	"testing"

	go_json "github.com/goccy/go-json"
)

func TestSpO2(t *testing.T) {
	t.Parallel()

	withValues := go_json.RawMessage(`{"dateTime":"2023-03-05","value":{"avg":95.8,"min":91.5,"max":99.0}}`)
	withoutValues := go_json.RawMessage(`{"dateTime":"2023-03-06","value":{}}`)

	table, err := testExtractor().SpO2([]go_json.RawMessage{withValues, withoutValues})
	if err != nil {
		t.Fatalf("SpO2() error = %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("table has %d rows, want 2", table.Len())
	}

	first := table.Rows[0]
	if first[ColDate] != "05/03/2023" || first["Average_SP02"] != 95.8 || first["SPO2_Min"] != 91.5 || first["SPO2_Max"] != 99.0 {
		t.Errorf("row = %v", first)
	}

	// Absent measurements stay null instead of defaulting to zero.
	second := table.Rows[1]
	if second["Average_SP02"] != nil || second["SPO2_Min"] != nil || second["SPO2_Max"] != nil {
		t.Errorf("row = %v, want null spo2 cells", second)
	}
}
