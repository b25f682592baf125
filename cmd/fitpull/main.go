package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vickgarcia/fitpull/internal/version"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "fitpull",
		Short:   "Fitbit health data in flat files",
		Long:    "Retrieves daily Fitbit time-series data within the API quota and normalizes it into per-resource CSV tables.",
		Version: version.Get(),
	}

	rootCmd.AddCommand(authCmd())
	rootCmd.AddCommand(devicesCmd())
	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(processCmd())

	if err := fang.Execute(context.Background(), rootCmd, fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}
