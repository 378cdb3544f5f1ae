package domain

// A single weather record at one route node and one voyage hour.
//
// Actual observations carry SampleHour == Hour. Forecast records carry the
// hour the prediction was issued in SampleHour (always <= Hour).
//
// Marine fields are pointers because coastal stations routinely have gaps in
// wave and current coverage. A nil field means "no marine contribution", not
// a failed observation; the physics model substitutes zero resistance.
type WeatherObservation struct {
	NodeID     int
	Hour       int
	SampleHour int

	WindSpeedMS float64
	WindDirDeg  float64 // direction the wind blows from, degrees true

	WaveHeightM    *float64
	CurrentSpeedKn *float64
	CurrentDirDeg  *float64 // direction the current sets toward, degrees true
}

// beaufortThresholds are the upper wind-speed bounds (m/s) of Beaufort
// numbers 0..11; anything above the last entry is BN 12.
var beaufortThresholds = []float64{
	0.5, 1.5, 3.3, 5.5, 7.9, 10.7, 13.8, 17.1, 20.7, 24.4, 28.4, 32.6,
}

// Beaufort derives the sea-state category (Beaufort number 0..12) from the
// observed wind speed.
func (w WeatherObservation) Beaufort() int {
	for bn, upper := range beaufortThresholds {
		if w.WindSpeedMS < upper {
			return bn
		}
	}
	return 12
}
