package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/vickgarcia/fitpull/internal/config"
	"github.com/vickgarcia/fitpull/internal/oauth"
	"github.com/vickgarcia/fitpull/internal/paths"
	"github.com/vickgarcia/fitpull/internal/tokenstore"
)

func authCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Fitbit",
		Long:  "Opens the browser to authorize the app and stores the token locally.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.ReadWithCredentials()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			if _, err := paths.EnsureDir(); err != nil {
				return err
			}

			dbPath, err := paths.DB()
			if err != nil {
				return err
			}

			store, err := tokenstore.Open(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open token store: %w", err)
			}
			defer func() {
				_ = store.Close()
			}()

			flow, err := oauth.NewFlow(oauth.NewConfig(cfg), store, cfg.Account)
			if err != nil {
				return err
			}

			token, err := flow.Run(ctx)
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			active, err := oauth.Introspect(ctx, http.DefaultClient, token.AccessToken)
			if err != nil {
				fmt.Printf("Warning: could not verify token: %v\n", err)
			} else if !active {
				return fmt.Errorf("token verification failed: token is not active")
			}

			fmt.Printf("Authentication successful!\n")
			fmt.Printf("Token expires: %s\n", token.Expiry.Format("2006-01-02 15:04:05"))

			return nil
		},
	}
}
