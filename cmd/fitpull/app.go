package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/vickgarcia/fitpull/internal/client/fitbit"
	"github.com/vickgarcia/fitpull/internal/config"
	"github.com/vickgarcia/fitpull/internal/oauth"
	"github.com/vickgarcia/fitpull/internal/paths"
	"github.com/vickgarcia/fitpull/internal/tokenstore"
	"github.com/vickgarcia/fitpull/internal/xslog"
)

// app wires the pieces every API-facing command needs: config, token store,
// and a client bound to the stored grant.
type app struct {
	cfg    config.Config
	client *fitbit.Client
	tokens *oauth.StoreTokenSource
	store  *tokenstore.Store
	logger *slog.Logger
}

func newLogger() *slog.Logger {
	return xslog.NewLoggerFromEnv(os.Stderr).With(xslog.RunID(uuid.NewString()))
}

func newApp(logger *slog.Logger) (*app, error) {
	cfg, err := config.ReadWithCredentials()
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if _, err := paths.EnsureDir(); err != nil {
		return nil, err
	}

	dbPath, err := paths.DB()
	if err != nil {
		return nil, err
	}

	store, err := tokenstore.Open(dbPath)
	if err != nil {
		return nil, err
	}

	tokens := oauth.NewStoreTokenSource(oauth.NewConfig(cfg), store, cfg.Account)

	return &app{
		cfg:    cfg,
		client: fitbit.New(tokens, fitbit.WithLogger(logger)),
		tokens: tokens,
		store:  store,
		logger: logger,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
