package normalize

import (
	"fmt"
	"strings"

	go_json "github.com/goccy/go-json"

	"github.com/vickgarcia/fitpull/internal/xslog"
)

type heartPayload struct {
	ActivitiesHeart []heartEntry  `json:"activities-heart"`
	Intraday        *intradayData `json:"activities-heart-intraday"`
}

type heartEntry struct {
	DateTime string     `json:"dateTime"`
	Value    heartValue `json:"value"`
}

type heartValue struct {
	RestingHeartRate *int        `json:"restingHeartRate"`
	HeartRateZones   []heartZone `json:"heartRateZones"`
}

type heartZone struct {
	Name        string  `json:"name"`
	Min         int     `json:"min"`
	Max         int     `json:"max"`
	CaloriesOut float64 `json:"caloriesOut"`
	Minutes     int     `json:"minutes"`
}

// RestingHeartRate records dates that carry a resting value; dates without
// one are logged and skipped rather than recorded with a placeholder.
func (e *Extractor) RestingHeartRate(payloads []go_json.RawMessage) (*Table, error) {
	t := NewTable(ColDevice, ColDate, "RestingHeartRate")

	for _, raw := range payloads {
		var payload heartPayload
		if err := go_json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("decoding heart rate payload: %w", err)
		}
		for _, entry := range payload.ActivitiesHeart {
			if entry.Value.RestingHeartRate == nil {
				e.logger.Info("no resting heart rate data available", xslog.Date(entry.DateTime))
				continue
			}
			t.Append(map[string]any{
				ColDevice:          e.deviceID,
				ColDate:            DisplayDate(entry.DateTime),
				"RestingHeartRate": *entry.Value.RestingHeartRate,
			})
		}
	}

	return t, nil
}

// HeartRateZones emits min/max/caloriesOut/minutes columns per named zone,
// spaces stripped from the zone name. Zone columns appear in encounter order.
func (e *Extractor) HeartRateZones(payloads []go_json.RawMessage) (*Table, error) {
	t := NewTable(ColDevice, ColDate)

	for _, raw := range payloads {
		var payload heartPayload
		if err := go_json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("decoding heart rate payload: %w", err)
		}
		for _, entry := range payload.ActivitiesHeart {
			row := map[string]any{
				ColDevice: e.deviceID,
				ColDate:   DisplayDate(entry.DateTime),
			}

			for _, zone := range entry.Value.HeartRateZones {
				name := strings.ReplaceAll(zone.Name, " ", "")
				t.AddColumns(name+"_Min", name+"_Max", name+"_CaloriesOut", name+"_Minutes")
				row[name+"_Min"] = zone.Min
				row[name+"_Max"] = zone.Max
				row[name+"_CaloriesOut"] = roundTo(zone.CaloriesOut, 4)
				row[name+"_Minutes"] = zone.Minutes
			}

			t.Append(row)
		}
	}

	return t, nil
}
