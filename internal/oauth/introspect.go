package oauth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	go_json "github.com/goccy/go-json"
)

// Introspect asks the API whether an access token is still active. The
// endpoint authenticates with the token under inspection.
func Introspect(ctx context.Context, client *http.Client, accessToken string) (bool, error) {
	form := url.Values{"token": {accessToken}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, introspectURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("creating introspection request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("executing introspection request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("token introspection failed: %d %s", resp.StatusCode, string(body))
	}

	var info struct {
		Active bool `json:"active"`
	}
	if err := go_json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return false, fmt.Errorf("decoding introspection response: %w", err)
	}

	return info.Active, nil
}
