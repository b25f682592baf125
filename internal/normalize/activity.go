package normalize

import (
	"fmt"
	"strconv"

	go_json "github.com/goccy/go-json"
)

type stepsPayload struct {
	Steps []activityEntry `json:"activities-steps"`
}

type caloriesPayload struct {
	Calories []activityEntry `json:"activities-calories"`
}

// activityEntry is one day's total for a daily activity series. The API
// returns the value as a string.
type activityEntry struct {
	DateTime string `json:"dateTime"`
	Value    string `json:"value"`
}

func (e *Extractor) Steps(payloads []go_json.RawMessage) (*Table, error) {
	t := NewTable(ColDevice, ColDate, "TotalSteps")

	for _, raw := range payloads {
		var payload stepsPayload
		if err := go_json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("decoding steps payload: %w", err)
		}
		for _, entry := range payload.Steps {
			t.Append(map[string]any{
				ColDevice:    e.deviceID,
				ColDate:      DisplayDate(entry.DateTime),
				"TotalSteps": coerceInt(entry.Value),
			})
		}
	}

	return t, nil
}

func (e *Extractor) Calories(payloads []go_json.RawMessage) (*Table, error) {
	const colCalories = "Values_calorias quemadas"

	t := NewTable(ColDevice, ColDate, colCalories)

	for _, raw := range payloads {
		var payload caloriesPayload
		if err := go_json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("decoding calories payload: %w", err)
		}
		for _, entry := range payload.Calories {
			t.Append(map[string]any{
				ColDevice:   e.deviceID,
				ColDate:     DisplayDate(entry.DateTime),
				colCalories: coerceInt(entry.Value),
			})
		}
	}

	return t, nil
}

// coerceInt turns the API's stringly-typed daily totals into integers;
// unparsable values become zero.
func coerceInt(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
