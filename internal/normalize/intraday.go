package normalize

import (
	"fmt"
	"math"

	go_json "github.com/goccy/go-json"
)

// intradayData is the fine-grained dataset attached to the 1-second heart
// rate endpoint response.
type intradayData struct {
	Dataset         []SamplePoint `json:"dataset"`
	DatasetInterval int           `json:"datasetInterval"`
	DatasetType     string        `json:"datasetType"`
}

// SamplePoint is one intraday heart-rate reading. Time is a local "HH:MM:SS"
// clock; the sequence is non-decreasing in time as returned by the API.
type SamplePoint struct {
	Time  string `json:"time"`
	Value int    `json:"value"`
}

const (
	// activeThreshold splits samples into active (>) and resting (<=).
	activeThreshold = 110

	// nightEnd bounds the night window: ["00:00", "09:00").
	nightEnd = "09:00"

	// Fallback means when a filtered subset is empty.
	defaultActiveMean  = 120
	defaultRestingMean = 80
)

var averageRateColumns = []string{
	ColDevice, ColDate,
	"TimeStart", "TimeEnd", "Duration",
	"TimeStartDay", "TimeEndDay", "DurationDay",
	"TimeStartNight", "TimeEndNight", "DurationNight",
	"dataset_Interval", "dataset_type",
	"average_HeartValue",
	"average_HeartValue_Activity",
	"average_HeartValue_Resting",
	"average_HeartValue_Day",
	"average_HeartValue_Day_Activity",
	"average_HeartValue_Day_Activity_Duration",
	"average_HeartValue_Day_Resting",
	"average_HeartValue_Day_Resting_Duration",
	"average_HeartValue_Night",
	"average_HeartValue_Night_Activity",
	"average_HeartValue_Night_Activity_Duration",
	"average_HeartValue_Night_Resting",
	"average_HeartValue_Night_Resting_Duration",
	"BloodPreassure",
}

// AverageRate derives the activity/rest segmentation record from each day's
// intraday dataset.
func (e *Extractor) AverageRate(payloads []go_json.RawMessage) (*Table, error) {
	t := NewTable(averageRateColumns...)

	for _, raw := range payloads {
		var payload heartPayload
		if err := go_json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("decoding intraday heart rate payload: %w", err)
		}
		if payload.Intraday == nil || len(payload.Intraday.Dataset) == 0 {
			continue
		}

		date := NoTime
		if len(payload.ActivitiesHeart) > 0 {
			date = payload.ActivitiesHeart[0].DateTime
		}

		t.Append(e.averageRateRow(date, payload.Intraday))
	}

	return t, nil
}

func (e *Extractor) averageRateRow(date string, intraday *intradayData) map[string]any {
	dataset := intraday.Dataset
	day, night := splitWindows(dataset)

	interval := intraday.DatasetInterval
	if interval == 0 {
		interval = 1
	}
	datasetType := intraday.DatasetType
	if datasetType == "" {
		datasetType = "minute"
	}

	timeStart := dataset[0].Time
	timeEnd := dataset[len(dataset)-1].Time
	duration := formatDuration(durationBetween(timeStart, timeEnd))

	startDay, endDay := windowBounds(day)
	startNight, endNight := windowBounds(night)

	durationDay := formatDuration(windowSpan(day))
	durationNight := formatDuration(windowSpan(night))

	dayActiveSec, dayRestingSec := periodDurations(day)
	nightActiveSec, nightRestingSec := periodDurations(night)

	avg := meanAll(dataset, 0)
	avgActive := meanFiltered(dataset, activeSample, defaultActiveMean)
	avgResting := meanFiltered(dataset, restingSample, defaultRestingMean)

	avgDay := meanAll(day, 0)
	avgDayActive := meanFiltered(day, activeSample, defaultActiveMean)
	avgDayResting := meanFiltered(day, restingSample, defaultRestingMean)

	avgNight := meanAll(night, 0)
	avgNightActive := meanFiltered(night, activeSample, defaultActiveMean)
	avgNightResting := meanFiltered(night, restingSample, defaultRestingMean)

	// Documented quirk kept from the reference behavior: when both windows
	// consist entirely of non-zero readings and nothing crosses the active
	// threshold, the full-day and night active means are pinned to 120.
	if allNonZero(day) && allNonZero(night) && noneAbove(dataset, activeThreshold) {
		avgActive = defaultActiveMean
		avgNightActive = defaultActiveMean
	}

	bloodPressure := fmt.Sprintf("%d / %d", int(math.Round(avgActive)), int(math.Round(avgResting)))

	return map[string]any{
		ColDevice:          e.deviceID,
		ColDate:            DisplayDate(date),
		"TimeStart":        timeStart,
		"TimeEnd":          timeEnd,
		"Duration":         duration,
		"TimeStartDay":     startDay,
		"TimeEndDay":       endDay,
		"DurationDay":      durationDay,
		"TimeStartNight":   startNight,
		"TimeEndNight":     endNight,
		"DurationNight":    durationNight,
		"dataset_Interval": interval,
		"dataset_type":     datasetType,

		"average_HeartValue":          roundTo(avg, 4),
		"average_HeartValue_Activity": roundTo(avgActive, 2),
		"average_HeartValue_Resting":  roundTo(avgResting, 2),

		"average_HeartValue_Day":                   roundTo(avgDay, 2),
		"average_HeartValue_Day_Activity":          roundTo(avgDayActive, 2),
		"average_HeartValue_Day_Activity_Duration": formatDuration(dayActiveSec),
		"average_HeartValue_Day_Resting":           roundTo(avgDayResting, 2),
		"average_HeartValue_Day_Resting_Duration":  formatDuration(dayRestingSec),

		"average_HeartValue_Night":                   roundTo(avgNight, 2),
		"average_HeartValue_Night_Activity":          roundTo(avgNightActive, 2),
		"average_HeartValue_Night_Activity_Duration": formatDuration(nightActiveSec),
		"average_HeartValue_Night_Resting":           roundTo(avgNightResting, 2),
		"average_HeartValue_Night_Resting_Duration":  formatDuration(nightRestingSec),

		"BloodPreassure": bloodPressure,
	}
}

// splitWindows partitions samples into the day window ("09:00" <= time) and
// the night window ("00:00" <= time < "09:00"). The clock strings compare
// lexicographically.
func splitWindows(dataset []SamplePoint) (day, night []SamplePoint) {
	for _, s := range dataset {
		if s.Time < nightEnd {
			night = append(night, s)
		} else {
			day = append(day, s)
		}
	}
	return day, night
}

// windowBounds returns the earliest and latest clock times in a window, or
// nils for an empty window.
func windowBounds(window []SamplePoint) (start, end any) {
	if len(window) == 0 {
		return nil, nil
	}
	first, last := window[0].Time, window[0].Time
	for _, s := range window[1:] {
		if s.Time < first {
			first = s.Time
		}
		if s.Time > last {
			last = s.Time
		}
	}
	return first, last
}

func windowSpan(window []SamplePoint) int {
	start, end := windowBounds(window)
	if start == nil {
		return 0
	}
	return durationBetween(start.(string), end.(string))
}

// periodDurations performs the run-length segmentation: samples are scanned
// in order and classified against the threshold; each maximal run contributes
// the span from its first sample to the sample preceding the next
// classification change (the final run closes against the last sample). A
// single-sample run has no boundary to measure against and contributes zero.
func periodDurations(data []SamplePoint) (activeSeconds, restingSeconds int) {
	var (
		runStart  string
		runActive bool
		inRun     bool
	)

	for i, entry := range data {
		active := activeSample(entry)
		if inRun && active == runActive {
			continue
		}
		if inRun {
			d := durationBetween(runStart, data[i-1].Time)
			if runActive {
				activeSeconds += d
			} else {
				restingSeconds += d
			}
		}
		runStart = entry.Time
		runActive = active
		inRun = true
	}

	if inRun {
		d := durationBetween(runStart, data[len(data)-1].Time)
		if runActive {
			activeSeconds += d
		} else {
			restingSeconds += d
		}
	}

	return activeSeconds, restingSeconds
}

func activeSample(s SamplePoint) bool  { return s.Value > activeThreshold }
func restingSample(s SamplePoint) bool { return s.Value <= activeThreshold }

func meanAll(data []SamplePoint, empty float64) float64 {
	if len(data) == 0 {
		return empty
	}
	sum := 0
	for _, s := range data {
		sum += s.Value
	}
	return float64(sum) / float64(len(data))
}

func meanFiltered(data []SamplePoint, keep func(SamplePoint) bool, empty float64) float64 {
	sum, n := 0, 0
	for _, s := range data {
		if keep(s) {
			sum += s.Value
			n++
		}
	}
	if n == 0 {
		return empty
	}
	return float64(sum) / float64(n)
}

func allNonZero(data []SamplePoint) bool {
	for _, s := range data {
		if s.Value == 0 {
			return false
		}
	}
	return true
}

func noneAbove(data []SamplePoint, threshold int) bool {
	for _, s := range data {
		if s.Value > threshold {
			return false
		}
	}
	return true
}
