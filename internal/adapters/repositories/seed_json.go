package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
)

// Dialect selects placeholder and upsert syntax for the seeders, so the
// same seed files load into the local sqlite store and the shared postgres
// instance dbtool targets.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

type WaypointSeed struct {
	NodeID       int     `json:"node_id"`
	Lon          float64 `json:"lon"`
	Lat          float64 `json:"lat"`
	CumulativeNM float64 `json:"cumulative_nm"`
	SegmentIndex int     `json:"segment_index"`
	Origin       bool    `json:"origin"`
}

type ObservationSeed struct {
	NodeID         int      `json:"node_id"`
	Hour           int      `json:"hour"`
	SampleHour     *int     `json:"sample_hour,omitempty"` // forecasts only
	WindSpeedMS    float64  `json:"wind_speed_ms"`
	WindDirDeg     float64  `json:"wind_dir_deg"`
	WaveHeightM    *float64 `json:"wave_height_m,omitempty"`
	CurrentSpeedKn *float64 `json:"current_speed_kn,omitempty"`
	CurrentDirDeg  *float64 `json:"current_dir_deg,omitempty"`
}

type WeatherSeed struct {
	Actual    []ObservationSeed `json:"actual"`
	Forecasts []ObservationSeed `json:"forecasts"`
}

// Populate the waypoints table from a JSON route file.
func SeedRouteFromJSON(db *sql.DB, jsonPath string, dialect Dialect) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed route: read %q: %w", jsonPath, err)
	}

	var waypoints []WaypointSeed
	if err := json.Unmarshal(bytes, &waypoints); err != nil {
		return fmt.Errorf("seed route: parse json: %w", err)
	}

	for i, w := range waypoints {
		if w.NodeID != i {
			return fmt.Errorf("seed route: waypoint at index %d has node_id=%d; ids must be dense and ordered", i, w.NodeID)
		}
		if i > 0 && w.CumulativeNM <= waypoints[i-1].CumulativeNM {
			return fmt.Errorf("seed route: node_id=%d cumulative_nm=%.2f does not increase", w.NodeID, w.CumulativeNM)
		}
	}
	if len(waypoints) < 2 {
		return fmt.Errorf("seed route: need at least 2 waypoints, got %d", len(waypoints))
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed route: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var query string
	switch dialect {
	case Postgres:
		query = `
		INSERT INTO waypoints (node_id, lon, lat, cumulative_nm, segment_index, origin)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (node_id) DO UPDATE
		SET lon = EXCLUDED.lon, lat = EXCLUDED.lat,
			cumulative_nm = EXCLUDED.cumulative_nm,
			segment_index = EXCLUDED.segment_index,
			origin = EXCLUDED.origin;
		`
	default:
		query = `
		INSERT OR REPLACE INTO waypoints (node_id, lon, lat, cumulative_nm, segment_index, origin)
		VALUES (?, ?, ?, ?, ?, ?);
		`
	}

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed route: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, w := range waypoints {
		if _, err := stmt.Exec(w.NodeID, w.Lon, w.Lat, w.CumulativeNM, w.SegmentIndex, boolToInt(w.Origin)); err != nil {
			return fmt.Errorf("seed route: insert node_id=%d: %w", w.NodeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed route: commit tx: %w", err)
	}

	return nil
}

// Populate the weather tables from a JSON file holding both actual
// observations and issued forecasts.
func SeedWeatherFromJSON(db *sql.DB, jsonPath string, dialect Dialect) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed weather: read %q: %w", jsonPath, err)
	}

	var seed WeatherSeed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return fmt.Errorf("seed weather: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed weather: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var actualQuery, forecastQuery string
	switch dialect {
	case Postgres:
		actualQuery = `
		INSERT INTO weather_actual (node_id, hour, wind_speed_ms, wind_dir_deg, wave_height_m, current_speed_kn, current_dir_deg)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (node_id, hour) DO UPDATE
		SET wind_speed_ms = EXCLUDED.wind_speed_ms, wind_dir_deg = EXCLUDED.wind_dir_deg,
			wave_height_m = EXCLUDED.wave_height_m,
			current_speed_kn = EXCLUDED.current_speed_kn, current_dir_deg = EXCLUDED.current_dir_deg;
		`
		forecastQuery = `
		INSERT INTO weather_forecast (node_id, forecast_hour, sample_hour, wind_speed_ms, wind_dir_deg, wave_height_m, current_speed_kn, current_dir_deg)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (node_id, forecast_hour, sample_hour) DO UPDATE
		SET wind_speed_ms = EXCLUDED.wind_speed_ms, wind_dir_deg = EXCLUDED.wind_dir_deg,
			wave_height_m = EXCLUDED.wave_height_m,
			current_speed_kn = EXCLUDED.current_speed_kn, current_dir_deg = EXCLUDED.current_dir_deg;
		`
	default:
		actualQuery = `
		INSERT OR REPLACE INTO weather_actual (node_id, hour, wind_speed_ms, wind_dir_deg, wave_height_m, current_speed_kn, current_dir_deg)
		VALUES (?, ?, ?, ?, ?, ?, ?);
		`
		forecastQuery = `
		INSERT OR REPLACE INTO weather_forecast (node_id, forecast_hour, sample_hour, wind_speed_ms, wind_dir_deg, wave_height_m, current_speed_kn, current_dir_deg)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?);
		`
	}

	actualStmt, err := tx.Prepare(actualQuery)
	if err != nil {
		return fmt.Errorf("seed weather: prepare actual insert: %w", err)
	}
	defer actualStmt.Close()

	for _, o := range seed.Actual {
		if _, err := actualStmt.Exec(o.NodeID, o.Hour, o.WindSpeedMS, o.WindDirDeg,
			nullable(o.WaveHeightM), nullable(o.CurrentSpeedKn), nullable(o.CurrentDirDeg)); err != nil {
			return fmt.Errorf("seed weather: insert actual node_id=%d hour=%d: %w", o.NodeID, o.Hour, err)
		}
	}

	forecastStmt, err := tx.Prepare(forecastQuery)
	if err != nil {
		return fmt.Errorf("seed weather: prepare forecast insert: %w", err)
	}
	defer forecastStmt.Close()

	for _, o := range seed.Forecasts {
		if o.SampleHour == nil {
			return fmt.Errorf("seed weather: forecast node_id=%d hour=%d missing sample_hour", o.NodeID, o.Hour)
		}
		if *o.SampleHour > o.Hour {
			return fmt.Errorf("seed weather: forecast node_id=%d hour=%d issued after predicted hour (sample_hour=%d)",
				o.NodeID, o.Hour, *o.SampleHour)
		}
		if _, err := forecastStmt.Exec(o.NodeID, o.Hour, *o.SampleHour, o.WindSpeedMS, o.WindDirDeg,
			nullable(o.WaveHeightM), nullable(o.CurrentSpeedKn), nullable(o.CurrentDirDeg)); err != nil {
			return fmt.Errorf("seed weather: insert forecast node_id=%d hour=%d sample_hour=%d: %w",
				o.NodeID, o.Hour, *o.SampleHour, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed weather: commit tx: %w", err)
	}

	return nil
}

// nullable converts an optional seed field to a driver-friendly value.
func nullable(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// boolToInt binds the origin flag as 0/1. The column is INTEGER in both
// dialects and pgx does not coerce a Go bool into an integer parameter.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
