package fetcher

import (
	"context"

	"envitrack/internal/sensor"
)

// SensorFetcher retrieves sensor readings from the remote datastore.
// Implementations return readings ordered by timestamp ascending; an empty
// store yields an empty slice and a nil error.
type SensorFetcher interface {
	FetchAll(ctx context.Context) ([]sensor.Reading, error)
	FetchRecent(ctx context.Context, limit int) ([]sensor.Reading, error)
}
