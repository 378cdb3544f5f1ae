package weather

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"voyage-plan-service/internal/domain"
	"voyage-plan-service/internal/ports"
)

// SQLite-backed implementation of the WeatherSource port over the tables the
// external collector writes. Observations are stored at the collector's
// cadence (typically every 6 hours); lookups return the most recent record
// at or before the requested hour.
type SqliteWeatherStore struct {
	DB *sql.DB
}

func NewSqliteWeatherStore(db *sql.DB) *SqliteWeatherStore {
	return &SqliteWeatherStore{DB: db}
}

// Actual returns the ground-truth observation covering nodeID at hour.
func (s *SqliteWeatherStore) Actual(ctx context.Context, nodeID, hour int) (domain.WeatherObservation, error) {
	if s.DB == nil {
		return domain.WeatherObservation{}, errors.New("weather store: db is nil")
	}

	q := `
	SELECT
		hour,
		wind_speed_ms,
		wind_dir_deg,
		wave_height_m,
		current_speed_kn,
		current_dir_deg
	FROM weather_actual
	WHERE node_id = ?
		AND hour <= ?
	ORDER BY hour DESC
	LIMIT 1;
	`
	row := s.DB.QueryRowContext(ctx, q, nodeID, hour)

	obs, obsHour, err := scanObservation(row, nodeID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.WeatherObservation{}, fmt.Errorf("get actual weather: node=%d hour=%d: %w",
			nodeID, hour, ports.ErrWeatherNotFound)
	}
	if err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("get actual weather: node=%d hour=%d: %w", nodeID, hour, err)
	}

	obs.Hour = hour
	obs.SampleHour = obsHour
	return obs, nil
}

// Forecast returns the prediction for forecastHour from the freshest
// forecast issued at or before sampleHour.
func (s *SqliteWeatherStore) Forecast(ctx context.Context, nodeID, forecastHour, sampleHour int) (domain.WeatherObservation, error) {
	if s.DB == nil {
		return domain.WeatherObservation{}, errors.New("weather store: db is nil")
	}

	q := `
	SELECT
		sample_hour,
		wind_speed_ms,
		wind_dir_deg,
		wave_height_m,
		current_speed_kn,
		current_dir_deg
	FROM weather_forecast
	WHERE node_id = ?
		AND forecast_hour <= ?
		AND sample_hour <= ?
	ORDER BY forecast_hour DESC, sample_hour DESC
	LIMIT 1;
	`
	row := s.DB.QueryRowContext(ctx, q, nodeID, forecastHour, sampleHour)

	obs, issuedAt, err := scanObservation(row, nodeID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.WeatherObservation{}, fmt.Errorf("get forecast: node=%d forecast_hour=%d sample_hour=%d: %w",
			nodeID, forecastHour, sampleHour, ports.ErrWeatherNotFound)
	}
	if err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("get forecast: node=%d forecast_hour=%d sample_hour=%d: %w",
			nodeID, forecastHour, sampleHour, err)
	}

	obs.Hour = forecastHour
	obs.SampleHour = issuedAt
	return obs, nil
}

// RouteMetadata returns the ordered waypoints of the configured route.
func (s *SqliteWeatherStore) RouteMetadata(ctx context.Context) ([]domain.Waypoint, error) {
	if s.DB == nil {
		return nil, errors.New("weather store: db is nil")
	}

	q := `
	SELECT
		node_id,
		lon,
		lat,
		cumulative_nm,
		segment_index,
		origin
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

// scanObservation reads the shared column layout of both weather tables.
// The first column is the record's own time index (observation hour or
// forecast issue hour, depending on the query).
func scanObservation(row *sql.Row, nodeID int) (domain.WeatherObservation, int, error) {
	var (
		timeIdx int
		wave    sql.NullFloat64
		curSpd  sql.NullFloat64
		curDir  sql.NullFloat64
		obs     domain.WeatherObservation
	)
	if err := row.Scan(&timeIdx, &obs.WindSpeedMS, &obs.WindDirDeg, &wave, &curSpd, &curDir); err != nil {
		return domain.WeatherObservation{}, 0, err
	}

	obs.NodeID = nodeID
	if wave.Valid {
		v := wave.Float64
		obs.WaveHeightM = &v
	}
	if curSpd.Valid && curDir.Valid {
		sp, dir := curSpd.Float64, curDir.Float64
		obs.CurrentSpeedKn = &sp
		obs.CurrentDirDeg = &dir
	}

	return obs, timeIdx, nil
}
