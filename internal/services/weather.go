package services

import (
	"context"
	"errors"
	"math"

	"voyage-plan-service/internal/domain"
	"voyage-plan-service/internal/ports"
)

// ErrInfeasible indicates no speed assignment reaches the destination within
// the arrival-time budget. Fatal for the planner invocation that raised it;
// the rolling controller may recover one level up.
var ErrInfeasible = errors.New("planner: no speed assignment meets the arrival-time budget")

// WeatherFunc is the single-lookup weather view a planner or the simulator
// works against: observation for one node at one voyage hour. Planners stay
// agnostic of whether they are fed forecasts, ground truth, or a blend.
type WeatherFunc func(ctx context.Context, nodeID, hour int) (domain.WeatherObservation, error)

// ForecastWeather views the source through forecasts issued at or before
// sampleHour.
func ForecastWeather(src ports.WeatherSource, sampleHour int) WeatherFunc {
	return func(ctx context.Context, nodeID, hour int) (domain.WeatherObservation, error) {
		return src.Forecast(ctx, nodeID, hour, sampleHour)
	}
}

// ActualWeather views the source through ground-truth observations.
func ActualWeather(src ports.WeatherSource) WeatherFunc {
	return func(ctx context.Context, nodeID, hour int) (domain.WeatherObservation, error) {
		return src.Actual(ctx, nodeID, hour)
	}
}

// hourIndex rounds a fractional voyage hour to the integer index the weather
// tables are keyed by.
func hourIndex(h float64) int {
	if h < 0 {
		return 0
	}
	return int(math.Round(h))
}
