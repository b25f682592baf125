package normalize

import (
	"fmt"

	go_json "github.com/goccy/go-json"
)

type sleepPayload struct {
	Sleep []sleepEntry `json:"sleep"`
}

type sleepEntry struct {
	DateOfSleep   string `json:"dateOfSleep"`
	LogID         int64  `json:"logId"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Duration      int64  `json:"duration"`
	Efficiency    int    `json:"efficiency"`
	MinutesAsleep int    `json:"minutesAsleep"`
	MinutesAwake  int    `json:"minutesAwake"`
	TimeInBed     int    `json:"timeInBed"`
	IsMainSleep   bool   `json:"isMainSleep"`
	Type          string `json:"type"`
	Levels        struct {
		Summary map[string]sleepStage `json:"summary"`
	} `json:"levels"`
}

type sleepStage struct {
	Minutes             int `json:"minutes"`
	Count               int `json:"count"`
	ThirtyDayAvgMinutes int `json:"thirtyDayAvgMinutes"`
}

var sleepStageNames = []string{"deep", "wake", "light", "rem"}

// readableMinuteColumns lists the minute fields that additionally get a
// "H hours M minutes" rendering, in output order.
var readableMinuteColumns = []string{
	"minutesAsleep",
	"minutesAwake",
	"timeInBed",
	"wake_minutes",
	"rem_minutes",
	"light_minutes",
	"deep_minutes",
}

// Sleep keeps only the main sleep per date, at most one record per date even
// when several entries share it.
func (e *Extractor) Sleep(payloads []go_json.RawMessage) (*Table, error) {
	t := NewTable(
		ColDevice, ColLogID, ColDate,
		"startTime", "endTime", "duration", "efficiency",
		"minutesAsleep", "minutesAwake", "timeInBed",
		"isMainSleep", "type",
	)
	for _, stage := range sleepStageNames {
		t.AddColumns(stage+"_minutes", stage+"_count", stage+"_thirtyDayAvgMinutes")
	}
	t.AddColumns("minutesAsleep_hours")
	for _, col := range readableMinuteColumns {
		t.AddColumns(col + "_readable")
	}

	processed := make(map[string]bool)

	for _, raw := range payloads {
		var payload sleepPayload
		if err := go_json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("decoding sleep payload: %w", err)
		}

		for _, entry := range payload.Sleep {
			if !entry.IsMainSleep || processed[entry.DateOfSleep] {
				continue
			}
			processed[entry.DateOfSleep] = true

			row := map[string]any{
				ColDevice:       e.deviceID,
				ColLogID:        entry.LogID,
				ColDate:         DisplayDate(entry.DateOfSleep),
				"startTime":     entry.StartTime,
				"endTime":       entry.EndTime,
				"duration":      entry.Duration,
				"efficiency":    entry.Efficiency,
				"minutesAsleep": entry.MinutesAsleep,
				"minutesAwake":  entry.MinutesAwake,
				"timeInBed":     entry.TimeInBed,
				"isMainSleep":   entry.IsMainSleep,
				"type":          entry.Type,
			}

			for _, stage := range sleepStageNames {
				summary := entry.Levels.Summary[stage]
				row[stage+"_minutes"] = summary.Minutes
				row[stage+"_count"] = summary.Count
				row[stage+"_thirtyDayAvgMinutes"] = summary.ThirtyDayAvgMinutes
			}

			row["minutesAsleep_hours"] = minutesToHours(entry.MinutesAsleep)
			for _, col := range readableMinuteColumns {
				minutes, _ := row[col].(int)
				row[col+"_readable"] = minutesReadable(minutes)
			}

			t.Append(row)
		}
	}

	return t, nil
}
