package fitbit

// Resource identifies one Fitbit time-series endpoint family.
type Resource string

const (
	ResourceSteps    Resource = "steps"
	ResourceHeart    Resource = "heart"
	ResourceCalories Resource = "calories"
	ResourceSleep    Resource = "sleep"
	ResourceSpO2     Resource = "spo2"
	ResourceRate     Resource = "rate"
	ResourceDevices  Resource = "devices"
)

// TimeSeriesResources is the fixed set fetched per day, in request order.
var TimeSeriesResources = []Resource{
	ResourceSteps,
	ResourceHeart,
	ResourceCalories,
	ResourceSleep,
	ResourceSpO2,
	ResourceRate,
}

type Device struct {
	ID            string `json:"id"`
	DeviceVersion string `json:"deviceVersion"`
	Type          string `json:"type"`
	Battery       string `json:"battery"`
	BatteryLevel  int    `json:"batteryLevel"`
	LastSyncTime  string `json:"lastSyncTime"`
}
