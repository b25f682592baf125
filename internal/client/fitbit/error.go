package fitbit

import (
	"strings"

	go_json "github.com/goccy/go-json"
)

// errorMessage extracts the joined message list from a Fitbit error body,
// which carries an errors array of {errorType, message} objects.
func errorMessage(body []byte) string {
	var errResp struct {
		Errors []struct {
			ErrorType string `json:"errorType"`
			Message   string `json:"message"`
		} `json:"errors"`
	}

	if err := go_json.Unmarshal(body, &errResp); err != nil {
		return "failed to parse JSON response"
	}
	if len(errResp.Errors) == 0 {
		return "unknown error"
	}

	messages := make([]string, 0, len(errResp.Errors))
	for _, e := range errResp.Errors {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, ", ")
}
