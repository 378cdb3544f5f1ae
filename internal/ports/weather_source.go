package ports

import (
	"context"
	"errors"

	"voyage-plan-service/internal/domain"
)

// ErrWeatherNotFound indicates the source holds no record covering the
// requested node and hour. Absent marine fields inside a record are not an
// error; this is only for entirely missing rows.
var ErrWeatherNotFound = errors.New("weather source: no observation for requested node and hour")

// WeatherSource is the read contract over the externally collected weather
// tables. The core never writes through it and is independent of the
// on-disk format behind it.
type WeatherSource interface {
	// Actual returns the ground-truth observation covering nodeID at the
	// given voyage hour.
	Actual(ctx context.Context, nodeID, hour int) (domain.WeatherObservation, error)

	// Forecast returns the prediction for forecastHour at nodeID from the
	// freshest forecast issued at or before sampleHour.
	Forecast(ctx context.Context, nodeID, forecastHour, sampleHour int) (domain.WeatherObservation, error)

	// RouteMetadata returns the ordered waypoints of the fixed route.
	RouteMetadata(ctx context.Context) ([]domain.Waypoint, error)
}
