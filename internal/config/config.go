package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ClientID     string `env:"FITBIT_CLIENT_ID"`
	ClientSecret string `env:"FITBIT_CLIENT_SECRET"`
	RedirectURL  string `env:"FITBIT_REDIRECT_URL" envDefault:"http://localhost:8000/callback"`

	// Account labels the credential pair; it names the token row and the
	// per-account output directory.
	Account string `env:"FITBIT_ACCOUNT" envDefault:"default"`

	DataDir string `env:"FITPULL_DATA_DIR" envDefault:"data"`
}

var ErrMissingCredentials = errors.New("FITBIT_CLIENT_ID and FITBIT_CLIENT_SECRET must be set")

func Read() (Config, error) {
	return env.ParseAs[Config]()
}

// ReadWithCredentials is Read plus a check that the OAuth client pair is
// present, for commands that talk to the API.
func ReadWithCredentials() (Config, error) {
	cfg, err := Read()
	if err != nil {
		return cfg, err
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return cfg, ErrMissingCredentials
	}
	return cfg, nil
}
