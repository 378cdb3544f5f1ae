package services

import (
	"math"

	"voyage-plan-service/internal/domain"
)

// aggregateObservations collapses a segment's per-node weather into one
// representative observation: circular mean for directions, arithmetic mean
// for magnitudes. Missing marine values are ignored rather than treated as
// zero; if no node carries a marine field the aggregate drops it too.
func aggregateObservations(obs []domain.WeatherObservation) domain.WeatherObservation {
	if len(obs) == 0 {
		return domain.WeatherObservation{}
	}

	var out domain.WeatherObservation
	out.NodeID = obs[0].NodeID
	out.Hour = obs[0].Hour
	out.SampleHour = obs[0].SampleHour

	var windSum float64
	windDirs := make([]float64, 0, len(obs))
	var waveSum float64
	waveN := 0
	var curSum float64
	curDirs := make([]float64, 0, len(obs))

	for _, o := range obs {
		windSum += o.WindSpeedMS
		windDirs = append(windDirs, o.WindDirDeg)

		if o.WaveHeightM != nil {
			waveSum += *o.WaveHeightM
			waveN++
		}
		if o.CurrentSpeedKn != nil && o.CurrentDirDeg != nil {
			curSum += *o.CurrentSpeedKn
			curDirs = append(curDirs, *o.CurrentDirDeg)
		}
	}

	out.WindSpeedMS = windSum / float64(len(obs))
	out.WindDirDeg = circularMeanDeg(windDirs)

	if waveN > 0 {
		w := waveSum / float64(waveN)
		out.WaveHeightM = &w
	}
	if len(curDirs) > 0 {
		sp := curSum / float64(len(curDirs))
		dir := circularMeanDeg(curDirs)
		out.CurrentSpeedKn = &sp
		out.CurrentDirDeg = &dir
	}

	return out
}

// circularMeanDeg averages compass directions via unit vectors, so that
// e.g. 350 and 10 average to 0 rather than 180.
func circularMeanDeg(degs []float64) float64 {
	if len(degs) == 0 {
		return 0
	}
	var x, y float64
	for _, d := range degs {
		r := d * math.Pi / 180
		x += math.Cos(r)
		y += math.Sin(r)
	}
	if x == 0 && y == 0 {
		// Perfectly opposed directions; any answer is as good as another.
		return degs[0]
	}
	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}
