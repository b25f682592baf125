package fitbit

import "fmt"

// DateLayout is the wire format for request dates.
const DateLayout = "2006-01-02"

func endpointFor(userID string, resource Resource, date string) string {
	switch resource {
	case ResourceSteps, ResourceHeart, ResourceCalories:
		return fmt.Sprintf("/1/user/%s/activities/%s/date/%s/1d.json", userID, resource, date)
	case ResourceSleep:
		return fmt.Sprintf("/1.2/user/%s/sleep/date/%s.json", userID, date)
	case ResourceSpO2:
		return fmt.Sprintf("/1/user/%s/spo2/date/%s.json", userID, date)
	case ResourceRate:
		return fmt.Sprintf("/1/user/%s/activities/heart/date/%s/1d/1sec.json", userID, date)
	default:
		return ""
	}
}

func devicesEndpoint(userID string) string {
	return fmt.Sprintf("/1/user/%s/devices.json", userID)
}
