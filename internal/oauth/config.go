package oauth

import (
	"github.com/vickgarcia/fitpull/internal/config"
	"golang.org/x/oauth2"
)

const (
	authURL       = "https://www.fitbit.com/oauth2/authorize"
	tokenURL      = "https://api.fitbit.com/oauth2/token" //nolint:gosec // not credentials, just endpoint URL
	introspectURL = "https://api.fitbit.com/1.1/oauth2/introspect"
)

var scopes = []string{
	"activity",
	"heartrate",
	"location",
	"nutrition",
	"profile",
	"settings",
	"sleep",
	"social",
	"weight",
	"oxygen_saturation",
}

func NewConfig(cfg config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}
}
