package physics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyage-plan-service/internal/domain"
)

func ptr(f float64) *float64 { return &f }

func testShip() domain.ShipParams { return domain.DefaultShip() }

// calm: no wind (BN 0), no marine fields. The model must pass the engine
// speed through unchanged.
func TestGroundSpeedCalmEqualsEngineSpeed(t *testing.T) {
	ship := testShip()
	calm := domain.WeatherObservation{}

	for _, v := range []float64{0, 4, 8.5, 12, 17.5} {
		assert.InDelta(t, v, GroundSpeed(v, calm, 90, ship), 1e-12, "engine=%.1f", v)
	}
}

func TestGroundSpeedMissingMarineFieldsContributeNothing(t *testing.T) {
	ship := testShip()

	bare := domain.WeatherObservation{WindSpeedMS: 9.0, WindDirDeg: 45}
	zeroed := bare
	zeroed.WaveHeightM = ptr(0)
	zeroed.CurrentSpeedKn = ptr(0)
	zeroed.CurrentDirDeg = ptr(45)

	for _, v := range []float64{6, 10, 14} {
		assert.InDelta(t, GroundSpeed(v, zeroed, 45, ship), GroundSpeed(v, bare, 45, ship), 1e-12)
	}
}

func TestGroundSpeedClampedAtZero(t *testing.T) {
	ship := testShip()
	// Opposing current stronger than anything a slow engine setting makes good.
	wx := domain.WeatherObservation{
		WindSpeedMS:    30,
		WindDirDeg:     0,
		WaveHeightM:    ptr(8),
		CurrentSpeedKn: ptr(6),
		CurrentDirDeg:  ptr(180),
	}
	assert.Equal(t, 0.0, GroundSpeed(2, wx, 0, ship))
}

// Ground speed must never decrease when the engine speed increases, in any
// weather. The planners and the inversion both lean on this.
func TestGroundSpeedMonotonicInEngineSpeed(t *testing.T) {
	ship := testShip()

	dirs := []float64{0, 20, 45, 75, 110, 160, 180, 250, 330}
	winds := []float64{0, 1.0, 3.0, 6.5, 9.0, 14.0, 21.0, 30.0}
	waves := []*float64{nil, ptr(1.2), ptr(4.5)}
	currents := []struct {
		speed *float64
		dir   *float64
	}{
		{nil, nil},
		{ptr(2.0), ptr(90.0)},  // following (heading is 90)
		{ptr(2.0), ptr(270.0)}, // opposing
	}

	for _, wd := range dirs {
		for _, ws := range winds {
			for _, wave := range waves {
				for _, cur := range currents {
					wx := domain.WeatherObservation{
						WindSpeedMS:    ws,
						WindDirDeg:     wd,
						WaveHeightM:    wave,
						CurrentSpeedKn: cur.speed,
						CurrentDirDeg:  cur.dir,
					}
					prev := GroundSpeed(0, wx, 90, ship)
					for v := 0.25; v <= 20; v += 0.25 {
						g := GroundSpeed(v, wx, 90, ship)
						require.GreaterOrEqual(t, g, prev-1e-12,
							"wind=%.1fm/s from %.0f engine=%.2f", ws, wd, v)
						prev = g
					}
				}
			}
		}
	}
}

func TestFuelRateStrictlyIncreasingAndConvex(t *testing.T) {
	ship := testShip()

	prev := FuelRate(4, ship)
	for v := 4.5; v <= 18; v += 0.5 {
		cur := FuelRate(v, ship)
		require.Greater(t, cur, prev, "engine=%.1f", v)
		prev = cur
	}

	// Midpoint convexity, strict for the cubic propulsion term.
	for a := 5.0; a <= 14; a += 1.5 {
		b := a + 3
		mid := FuelRate((a+b)/2, ship)
		require.Less(t, mid, (FuelRate(a, ship)+FuelRate(b, ship))/2, "a=%.1f b=%.1f", a, b)
	}
}

// Inverting the achieved ground speed must recover the engine speed that
// produced it, across sea states.
func TestEngineSpeedForRoundTrip(t *testing.T) {
	ship := testShip()

	cases := []struct {
		name    string
		wx      domain.WeatherObservation
		heading float64
		engine  float64
	}{
		{"calm", domain.WeatherObservation{}, 90, 12},
		{"head sea bn5", domain.WeatherObservation{WindSpeedMS: 9.0, WindDirDeg: 90, WaveHeightM: ptr(2.0)}, 90, 13},
		{"beam sea bn6", domain.WeatherObservation{WindSpeedMS: 11.5, WindDirDeg: 0, WaveHeightM: ptr(3.0)}, 90, 15},
		{"following current", domain.WeatherObservation{WindSpeedMS: 5.0, WindDirDeg: 180, CurrentSpeedKn: ptr(1.5), CurrentDirDeg: ptr(90.0)}, 90, 10},
		{"opposing current", domain.WeatherObservation{WindSpeedMS: 5.0, WindDirDeg: 90, CurrentSpeedKn: ptr(1.5), CurrentDirDeg: ptr(270.0)}, 90, 14},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := GroundSpeed(tc.engine, tc.wx, tc.heading, ship)
			require.Greater(t, target, 0.0)

			got, err := EngineSpeedFor(target, tc.wx, tc.heading, ship, 1e-9, 200)
			require.NoError(t, err)
			assert.InDelta(t, tc.engine, got, 1e-6)
		})
	}
}

func TestEngineSpeedForCurrentCarriesShip(t *testing.T) {
	ship := testShip()
	wx := domain.WeatherObservation{CurrentSpeedKn: ptr(3.0), CurrentDirDeg: ptr(90.0)}

	got, err := EngineSpeedFor(2.5, wx, 90, ship, 1e-9, 200)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestEngineSpeedForNoSolution(t *testing.T) {
	ship := testShip()
	wx := domain.WeatherObservation{
		WindSpeedMS: 9.0,
		WindDirDeg:  90,
		WaveHeightM: ptr(2.0),
	}

	// Even the top of the search bracket cannot make 50 knots over ground.
	_, err := EngineSpeedFor(50, wx, 90, ship, 1e-9, 200)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSolution), "got %v", err)
}

func TestEngineSpeedForConvergenceBudget(t *testing.T) {
	ship := testShip()
	calm := domain.WeatherObservation{}

	_, err := EngineSpeedFor(12, calm, 90, ship, 1e-12, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoConvergence), "got %v", err)
}
