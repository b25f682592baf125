package fitbit

import (
	"context"
	"fmt"

	go_json "github.com/goccy/go-json"
)

// Devices lists the trackers paired to the account. The single lookup goes
// through the same admission check and retry loop as the batch requests.
func (c *Client) Devices(ctx context.Context, userID string) ([]Device, error) {
	if err := c.checkAdmission(1); err != nil {
		return nil, err
	}

	payload, err := c.fetch(ctx, devicesEndpoint(userID), ResourceDevices)
	if err != nil {
		return nil, err
	}

	var devices []Device
	if err := go_json.Unmarshal(payload, &devices); err != nil {
		return nil, fmt.Errorf("decoding devices: %w", err)
	}
	return devices, nil
}
