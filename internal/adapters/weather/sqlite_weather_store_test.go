package weather

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"voyage-plan-service/internal/adapters/repositories"
	"voyage-plan-service/internal/ports"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, repositories.InitSchema(db))
	return db
}

func TestActualReturnsLatestAtOrBeforeHour(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO weather_actual
		(node_id, hour, wind_speed_ms, wind_dir_deg, wave_height_m, current_speed_kn, current_dir_deg)
		VALUES
		(3, 0, 5.0, 90, 1.2, NULL, NULL),
		(3, 6, 8.0, 110, NULL, 0.8, 45),
		(3, 12, 11.0, 130, 2.4, 1.1, 50);`)
	require.NoError(t, err)

	store := NewSqliteWeatherStore(db)

	// Hour 9 falls between the 6 h and 12 h records; the 6 h one wins.
	obs, err := store.Actual(ctx, 3, 9)
	require.NoError(t, err)
	assert.Equal(t, 3, obs.NodeID)
	assert.Equal(t, 9, obs.Hour)
	assert.Equal(t, 6, obs.SampleHour)
	assert.Equal(t, 8.0, obs.WindSpeedMS)
	assert.Nil(t, obs.WaveHeightM, "gap in wave coverage stays a gap")
	require.NotNil(t, obs.CurrentSpeedKn)
	assert.Equal(t, 0.8, *obs.CurrentSpeedKn)

	// An exact hit returns its own record.
	obs, err = store.Actual(ctx, 3, 12)
	require.NoError(t, err)
	assert.Equal(t, 11.0, obs.WindSpeedMS)
	require.NotNil(t, obs.WaveHeightM)
	assert.Equal(t, 2.4, *obs.WaveHeightM)
}

func TestActualMissingNode(t *testing.T) {
	store := NewSqliteWeatherStore(openTestDB(t))

	_, err := store.Actual(context.Background(), 99, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrWeatherNotFound), "got %v", err)
}

func TestForecastHonorsSampleHour(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	// Two forecasts for hour 12: one issued at hour 0, a fresher one at
	// hour 6. A planner working at hour 3 must only see the older issue.
	_, err := db.Exec(`INSERT INTO weather_forecast
		(node_id, forecast_hour, sample_hour, wind_speed_ms, wind_dir_deg, wave_height_m, current_speed_kn, current_dir_deg)
		VALUES
		(1, 12, 0, 7.0, 200, NULL, NULL, NULL),
		(1, 12, 6, 9.5, 210, 1.8, NULL, NULL);`)
	require.NoError(t, err)

	store := NewSqliteWeatherStore(db)

	obs, err := store.Forecast(ctx, 1, 12, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, obs.SampleHour)
	assert.Equal(t, 7.0, obs.WindSpeedMS)

	obs, err = store.Forecast(ctx, 1, 12, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, obs.SampleHour)
	assert.Equal(t, 9.5, obs.WindSpeedMS)

	// No issue exists before the requested sample hour.
	_, err = store.Forecast(ctx, 1, 12, -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrWeatherNotFound), "got %v", err)
}

func TestRouteMetadataOrdering(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, repositories.SeedRouteFromJSON(db, "../../../data/seeds/route.json", repositories.SQLite))

	store := NewSqliteWeatherStore(db)
	wps, err := store.RouteMetadata(context.Background())
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(wps), 2)
	assert.True(t, wps[0].Origin)
	for i, w := range wps {
		assert.Equal(t, i, w.NodeID)
		if i > 0 {
			assert.Greater(t, w.CumulativeNM, wps[i-1].CumulativeNM)
		}
	}
}
