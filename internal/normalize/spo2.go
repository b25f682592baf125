package normalize

import (
	"fmt"

	go_json "github.com/goccy/go-json"
)

type spo2Payload struct {
	DateTime string    `json:"dateTime"`
	Value    spo2Value `json:"value"`
}

type spo2Value struct {
	Avg *float64 `json:"avg"`
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// SpO2 emits one row per date with avg/min/max; absent values pass through as
// null rather than being defaulted.
func (e *Extractor) SpO2(payloads []go_json.RawMessage) (*Table, error) {
	t := NewTable(ColDevice, ColDate, "Average_SP02", "SPO2_Min", "SPO2_Max")

	for _, raw := range payloads {
		var payload spo2Payload
		if err := go_json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("decoding spo2 payload: %w", err)
		}
		t.Append(map[string]any{
			ColDevice:      e.deviceID,
			ColDate:        DisplayDate(payload.DateTime),
			"Average_SP02": nullableFloat(payload.Value.Avg),
			"SPO2_Min":     nullableFloat(payload.Value.Min),
			"SPO2_Max":     nullableFloat(payload.Value.Max),
		})
	}

	return t, nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
