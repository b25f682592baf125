package main

import (
	"fmt"
	"strings"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vickgarcia/fitpull/internal/client/fitbit"
	"github.com/vickgarcia/fitpull/internal/storage"
)

// maxRangeDays caps a single retrieval batch; larger ranges would not clear
// the hourly quota anyway.
const maxRangeDays = 30

func fetchCmd() *cobra.Command {
	var (
		startFlag  string
		endFlag    string
		daysFlag   int
		deviceFlag string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Retrieve daily time-series data for a date range",
		Long: "Fetches steps, heart rate, calories, sleep, SpO2, and intraday heart rate " +
			"for each day in the range and saves the raw bundle for later processing. " +
			"The run is refused up front if it would exceed the remaining request quota.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := newLogger()

			start, end, err := resolveRange(startFlag, endFlag, daysFlag)
			if err != nil {
				return err
			}

			a, err := newApp(logger)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			userID, err := a.tokens.UserID(ctx)
			if err != nil {
				return err
			}

			deviceID := deviceFlag
			if deviceID == "" {
				devices, err := a.client.Devices(ctx, userID)
				if err != nil {
					return fmt.Errorf("failed to fetch devices: %w", err)
				}
				if len(devices) == 0 {
					return fmt.Errorf("no devices found for account")
				}
				deviceID = devices[0].ID
				logger.Info("selected device", "device_id", deviceID, "version", devices[0].DeviceVersion)
			}

			bundle, err := a.client.Retrieve(ctx, userID, deviceID, start, end)
			if err != nil {
				return err
			}

			st, err := storage.New(a.cfg.DataDir, a.cfg.Account, logger)
			if err != nil {
				return err
			}

			if err := st.SaveJSON(storage.BundleFile, bundle); err != nil {
				return err
			}
			if err := st.SaveText(storage.SummaryFile, bundleText(bundle)); err != nil {
				return err
			}

			fmt.Printf("Data saved to %s\n", st.Dir())
			fmt.Printf("Run 'fitpull process --dataset %s' to produce the CSV tables.\n", st.Dir())

			return nil
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endFlag, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&daysFlag, "days", 0, "fetch the last N days instead of an explicit range")
	cmd.Flags().StringVar(&deviceFlag, "device", "", "device id (defaults to the first paired device)")

	return cmd
}

// resolveRange turns the flag combination into an inclusive date range.
// Explicit ranges must lie fully in the past and span at most maxRangeDays.
func resolveRange(startStr, endStr string, days int) (start, end time.Time, err error) {
	if days > 0 {
		if startStr != "" || endStr != "" {
			return start, end, fmt.Errorf("--days cannot be combined with --start/--end")
		}
		if days > maxRangeDays {
			return start, end, fmt.Errorf("date range must not exceed %d days", maxRangeDays)
		}
		end = time.Now()
		start = end.AddDate(0, 0, -(days - 1))
		return start, end, nil
	}

	if startStr == "" || endStr == "" {
		return start, end, fmt.Errorf("either --days or both --start and --end are required")
	}

	start, err = time.Parse(fitbit.DateLayout, startStr)
	if err != nil {
		return start, end, fmt.Errorf("invalid start date %q: use YYYY-MM-DD", startStr)
	}
	end, err = time.Parse(fitbit.DateLayout, endStr)
	if err != nil {
		return start, end, fmt.Errorf("invalid end date %q: use YYYY-MM-DD", endStr)
	}

	if start.Year() < 2000 || end.Year() < 2000 {
		return start, end, fmt.Errorf("year must be greater than 2000")
	}
	if end.After(time.Now().AddDate(0, 0, -1)) {
		return start, end, fmt.Errorf("end date cannot be today or in the future")
	}
	if start.After(end) {
		return start, end, fmt.Errorf("start date cannot be after end date")
	}
	if int(end.Sub(start).Hours()/24) > maxRangeDays {
		return start, end, fmt.Errorf("date range must not exceed %d days", maxRangeDays)
	}

	return start, end, nil
}

// bundleText renders the bundle as one "resource: payloads" line per
// resource, a plain-text companion to the JSON artifact.
func bundleText(b *fitbit.Bundle) string {
	var sb strings.Builder
	sb.WriteString("device_id: " + b.DeviceID + "\n")
	for _, r := range fitbit.TimeSeriesResources {
		line, err := go_json.Marshal(b.Payloads(r))
		if err != nil {
			continue
		}
		sb.WriteString(string(r) + ": " + string(line) + "\n")
	}
	return sb.String()
}
