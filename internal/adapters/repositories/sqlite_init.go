package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the weather and route tables the core reads from. The schema
// matches what the external collector writes; marine columns are nullable
// because coastal stations have gaps in wave and current coverage.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createWaypointsQuery := `
	CREATE TABLE IF NOT EXISTS waypoints (
		node_id INTEGER PRIMARY KEY,
		lon REAL NOT NULL,
		lat REAL NOT NULL,
		cumulative_nm REAL NOT NULL,
		segment_index INTEGER NOT NULL,
		origin INTEGER NOT NULL DEFAULT 0
	);
	`

	createActualQuery := `
	CREATE TABLE IF NOT EXISTS weather_actual (
		node_id INTEGER NOT NULL,
		hour INTEGER NOT NULL,
		wind_speed_ms REAL NOT NULL,
		wind_dir_deg REAL NOT NULL,
		wave_height_m REAL,
		current_speed_kn REAL,
		current_dir_deg REAL,
		PRIMARY KEY (node_id, hour)
	);
	`

	createForecastQuery := `
	CREATE TABLE IF NOT EXISTS weather_forecast (
		node_id INTEGER NOT NULL,
		forecast_hour INTEGER NOT NULL,
		sample_hour INTEGER NOT NULL,
		wind_speed_ms REAL NOT NULL,
		wind_dir_deg REAL NOT NULL,
		wave_height_m REAL,
		current_speed_kn REAL,
		current_dir_deg REAL,
		PRIMARY KEY (node_id, forecast_hour, sample_hour)
	);
	`

	createForecastIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_weather_forecast_lookup
	ON weather_forecast(node_id, forecast_hour, sample_hour DESC);
	`

	statements := []string{
		createWaypointsQuery,
		createActualQuery,
		createForecastQuery,
		createForecastIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
