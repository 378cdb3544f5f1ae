package weather

import (
	"context"
	"fmt"

	"voyage-plan-service/internal/domain"
)

// MockWeatherSource serves synthetic weather for tests. Actual and forecast
// lookups delegate to the supplied functions; when a function is nil the
// source returns calm weather (no wind, no marine fields).
type MockWeatherSource struct {
	Waypoints  []domain.Waypoint
	ActualFn   func(nodeID, hour int) (domain.WeatherObservation, error)
	ForecastFn func(nodeID, forecastHour, sampleHour int) (domain.WeatherObservation, error)
}

func NewMockWeatherSource(waypoints []domain.Waypoint) *MockWeatherSource {
	return &MockWeatherSource{Waypoints: waypoints}
}

func (m *MockWeatherSource) Actual(_ context.Context, nodeID, hour int) (domain.WeatherObservation, error) {
	if m.ActualFn == nil {
		return Calm(nodeID, hour), nil
	}
	return m.ActualFn(nodeID, hour)
}

func (m *MockWeatherSource) Forecast(_ context.Context, nodeID, forecastHour, sampleHour int) (domain.WeatherObservation, error) {
	if m.ForecastFn == nil {
		if m.ActualFn != nil {
			// Perfect-forecast default: the forecast equals the truth.
			return m.ActualFn(nodeID, forecastHour)
		}
		return Calm(nodeID, forecastHour), nil
	}
	return m.ForecastFn(nodeID, forecastHour, sampleHour)
}

func (m *MockWeatherSource) RouteMetadata(_ context.Context) ([]domain.Waypoint, error) {
	if len(m.Waypoints) == 0 {
		return nil, fmt.Errorf("mock weather source: no waypoints configured")
	}
	return m.Waypoints, nil
}

// Calm is a wind-free observation with no marine fields.
func Calm(nodeID, hour int) domain.WeatherObservation {
	return domain.WeatherObservation{NodeID: nodeID, Hour: hour, SampleHour: hour}
}
