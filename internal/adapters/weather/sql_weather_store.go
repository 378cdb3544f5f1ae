package weather

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"voyage-plan-service/internal/domain"
	"voyage-plan-service/internal/platform/obs"
	"voyage-plan-service/internal/ports"
)

// SQLWeatherStore is the postgres variant of the weather source, used when
// the collector writes to a shared database instead of a local file.
type SQLWeatherStore struct {
	DB *sql.DB
}

func NewSQLWeatherStore(db *sql.DB) *SQLWeatherStore {
	return &SQLWeatherStore{DB: db}
}

func (s *SQLWeatherStore) Actual(ctx context.Context, nodeID, hour int) (_ domain.WeatherObservation, err error) {
	defer obs.Time(ctx, "weather.store.Actual")(&err)

	if s.DB == nil {
		return domain.WeatherObservation{}, errors.New("weather store: db is nil")
	}

	q := `
	SELECT hour, wind_speed_ms, wind_dir_deg, wave_height_m, current_speed_kn, current_dir_deg
	FROM weather_actual
	WHERE node_id = $1
		AND hour <= $2
	ORDER BY hour DESC
	LIMIT 1;
	`
	row := s.DB.QueryRowContext(ctx, q, nodeID, hour)

	o, obsHour, err := scanObservation(row, nodeID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.WeatherObservation{}, fmt.Errorf("get actual weather: node=%d hour=%d: %w",
			nodeID, hour, ports.ErrWeatherNotFound)
	}
	if err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("get actual weather: node=%d hour=%d: %w", nodeID, hour, err)
	}

	o.Hour = hour
	o.SampleHour = obsHour
	return o, nil
}

func (s *SQLWeatherStore) Forecast(ctx context.Context, nodeID, forecastHour, sampleHour int) (_ domain.WeatherObservation, err error) {
	defer obs.Time(ctx, "weather.store.Forecast")(&err)

	if s.DB == nil {
		return domain.WeatherObservation{}, errors.New("weather store: db is nil")
	}

	q := `
	SELECT sample_hour, wind_speed_ms, wind_dir_deg, wave_height_m, current_speed_kn, current_dir_deg
	FROM weather_forecast
	WHERE node_id = $1
		AND forecast_hour <= $2
		AND sample_hour <= $3
	ORDER BY forecast_hour DESC, sample_hour DESC
	LIMIT 1;
	`
	row := s.DB.QueryRowContext(ctx, q, nodeID, forecastHour, sampleHour)

	o, issuedAt, err := scanObservation(row, nodeID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.WeatherObservation{}, fmt.Errorf("get forecast: node=%d forecast_hour=%d sample_hour=%d: %w",
			nodeID, forecastHour, sampleHour, ports.ErrWeatherNotFound)
	}
	if err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("get forecast: node=%d forecast_hour=%d sample_hour=%d: %w",
			nodeID, forecastHour, sampleHour, err)
	}

	o.Hour = forecastHour
	o.SampleHour = issuedAt
	return o, nil
}

func (s *SQLWeatherStore) RouteMetadata(ctx context.Context) (_ []domain.Waypoint, err error) {
	defer obs.Time(ctx, "weather.store.RouteMetadata")(&err)

	if s.DB == nil {
		return nil, errors.New("weather store: db is nil")
	}

	q := `
	SELECT node_id, lon, lat, cumulative_nm, segment_index, origin
	FROM waypoints
	ORDER BY node_id;
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("route metadata: query waypoints table: %w", err)
	}
	defer rows.Close()

	waypoints := make([]domain.Waypoint, 0, 64)
	for rows.Next() {
		var w domain.Waypoint
		var origin int
		if err := rows.Scan(&w.NodeID, &w.Position.Lon, &w.Position.Lat, &w.CumulativeNM, &w.SegmentIndex, &origin); err != nil {
			return nil, fmt.Errorf("route metadata: scan row: %w", err)
		}
		w.Origin = origin != 0
		waypoints = append(waypoints, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("route metadata: row iteration: %w", err)
	}

	return waypoints, nil
}
