package normalize

import (
	"fmt"
	"math"
	"time"
)

const (
	apiDateLayout     = "2006-01-02"
	displayDateLayout = "02/01/2006"
	clockLayout       = "15:04:05"
)

// NoTime is the sentinel the API uses for an absent clock value.
const NoTime = "N/A"

// DisplayDate reformats an API date (YYYY-MM-DD) for output (DD/MM/YYYY).
// One-directional display formatting, not a round-trippable transform.
func DisplayDate(s string) string {
	d, err := time.Parse(apiDateLayout, s)
	if err != nil {
		return s
	}
	return d.Format(displayDateLayout)
}

// durationBetween returns the seconds from start to end, both "HH:MM:SS"
// clock strings. An end before the start is taken to be on the next day. The
// NoTime sentinel (or an unparsable value) on either side yields zero.
func durationBetween(start, end string) int {
	if start == NoTime || end == NoTime {
		return 0
	}
	s, err := time.Parse(clockLayout, start)
	if err != nil {
		return 0
	}
	e, err := time.Parse(clockLayout, end)
	if err != nil {
		return 0
	}
	if e.Before(s) {
		e = e.Add(24 * time.Hour)
	}
	return int(e.Sub(s).Seconds())
}

// formatDuration renders seconds as "H hours M minutes S seconds".
func formatDuration(totalSeconds int) string {
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%d hours %d minutes %d seconds", hours, minutes, seconds)
}

// minutesReadable renders a minute count as "H hours M minutes".
func minutesReadable(minutes int) string {
	if minutes <= 0 {
		return "0 hours 0 minutes"
	}
	return fmt.Sprintf("%d hours %d minutes", minutes/60, minutes%60)
}

// minutesToHours converts minutes to hours with one decimal place.
func minutesToHours(minutes int) float64 {
	return roundTo(float64(minutes)/60, 1)
}

func roundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
