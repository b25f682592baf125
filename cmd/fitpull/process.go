package main

import (
	"errors"
	"fmt"

	go_json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vickgarcia/fitpull/internal/client/fitbit"
	"github.com/vickgarcia/fitpull/internal/normalize"
	"github.com/vickgarcia/fitpull/internal/storage"
	"github.com/vickgarcia/fitpull/internal/xslog"
)

func processCmd() *cobra.Command {
	var datasetFlag string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Normalize a saved bundle into CSV tables",
		Long: "Reloads a previously fetched raw bundle, runs the per-resource normalizers " +
			"and the intraday segmentation, joins everything by device and date, and writes " +
			"the CSV outputs next to the bundle.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			st := storage.Open(datasetFlag, logger)

			var bundle fitbit.Bundle
			if err := st.LoadJSON(storage.BundleFile, &bundle); err != nil {
				return err
			}
			if bundle.DeviceID == "" {
				return fmt.Errorf("device ID missing from data file")
			}

			extractor := normalize.NewExtractor(bundle.DeviceID, logger)

			// The normalizers are pure single passes over disjoint payload
			// lists, so they run concurrently; retrieval stays sequential.
			extractions := []struct {
				file string
				run  func([]go_json.RawMessage) (*normalize.Table, error)
				src  []go_json.RawMessage
			}{
				{storage.SleepCSV, extractor.Sleep, bundle.Sleep},
				{storage.StepsCSV, extractor.Steps, bundle.Steps},
				{storage.CaloriesCSV, extractor.Calories, bundle.Calories},
				{storage.RestingHeartRateCSV, extractor.RestingHeartRate, bundle.Rate},
				{storage.SpO2CSV, extractor.SpO2, bundle.SpO2},
				{storage.HeartRateDataCSV, extractor.HeartRateZones, bundle.Heart},
				{storage.AverageRateCSV, extractor.AverageRate, bundle.Rate},
			}

			tables := make([]*normalize.Table, len(extractions))

			var g errgroup.Group
			for i, x := range extractions {
				g.Go(func() error {
					t, err := x.run(x.src)
					if err != nil {
						return err
					}
					tables[i] = t
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for i, x := range extractions {
				if err := st.SaveCSV(x.file, tables[i]); err != nil {
					return err
				}
			}

			complete, incomplete, err := normalize.Reconcile(tables)
			if err != nil {
				if errors.Is(err, normalize.ErrNothingToMerge) {
					logger.Error("no data available to merge", xslog.Error(err))
					return nil
				}
				return err
			}

			if err := st.SaveCSV(storage.MergedCSV, complete); err != nil {
				return err
			}
			if err := st.SaveCSV(storage.IncompleteCSV, incomplete); err != nil {
				return err
			}

			logger.Info("data processed successfully", xslog.Path(st.Dir()))
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetFlag, "dataset", "", "path to a saved run directory")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}
