package normalize

import "log/slog"

// Extractor runs the per-resource normalizers over one run's raw payloads.
// Every method is a pure single pass over already-materialized data; the
// methods are independent and safe to run concurrently across resource kinds.
type Extractor struct {
	deviceID string
	logger   *slog.Logger
}

func NewExtractor(deviceID string, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		deviceID: deviceID,
		logger:   logger,
	}
}
