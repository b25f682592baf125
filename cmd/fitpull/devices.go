package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func devicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List trackers paired to the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := newLogger()

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

			devices, err := a.client.Devices(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to fetch devices: %w", err)
			}

			if len(devices) == 0 {
				fmt.Println("No devices found.")
				return nil
			}

			for i, d := range devices {
				fmt.Printf("%d. %s (ID: %s, battery: %s, last sync: %s)\n",
					i+1, d.DeviceVersion, d.ID, d.Battery, d.LastSyncTime)
			}

			return nil
		},
	}
}
