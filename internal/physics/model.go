// Package physics converts engine speed to ground speed and fuel rate under
// weather, and inverts the conversion. Everything here is a pure function of
// its arguments; the same inputs always produce the same outputs.
//
// The weather speed loss follows Kwon's approximate method: a direction
// reduction coefficient by relative wind angle and Beaufort number, a speed
// reduction coefficient indexed by Froude number, and a form coefficient from
// displacement and sea state. Surface current is projected onto the heading
// and added after the through-water speed is reduced.
package physics

import (
	"errors"
	"fmt"
	"math"

	"voyage-plan-service/internal/domain"
)

var (
	// ErrNoSolution indicates no engine speed inside the search bracket can
	// achieve the requested ground speed under the given weather.
	ErrNoSolution = errors.New("physics: target ground speed outside achievable envelope")
	// ErrNoConvergence indicates the bisection exhausted its iteration
	// budget before reaching the requested tolerance.
	ErrNoConvergence = errors.New("physics: engine speed inversion did not converge")
)

const (
	knotsToMS = 0.514444
	gravity   = 9.80665

	// Cap on the weather-induced loss fraction. Keeps the forward model
	// strictly increasing in engine speed for every coefficient combination
	// (the derivative stays >= 1-maxLossFraction because the speed
	// reduction coefficient is non-increasing in Froude number).
	maxLossFraction = 0.8

	seawaterDensity = 1.025 // tonnes per cubic metre
)

// GroundSpeed returns the speed over ground (knots) achieved at the given
// engine speed under one weather observation, on the given true heading.
// Missing marine fields contribute nothing. The result is clamped at zero.
func GroundSpeed(engineKn float64, wx domain.WeatherObservation, headingDeg float64, ship domain.ShipParams) float64 {
	if engineKn < 0 {
		engineKn = 0
	}

	loss := speedLossFraction(engineKn, wx, headingDeg, ship)
	g := engineKn*(1-loss) + currentAlongKn(wx, headingDeg)
	if g < 0 {
		return 0
	}
	return g
}

// FuelRate returns the fuel burn (tonnes/hour) at the given engine speed:
// a cubic propulsion term plus a constant hotel load. Strictly increasing
// and convex for positive engine speeds.
func FuelRate(engineKn float64, ship domain.ShipParams) float64 {
	r := engineKn / ship.DesignSpeedKn
	return ship.BaseFuelTPH*r*r*r + ship.HotelFuelTPH
}

// EngineSpeedFor inverts GroundSpeed by bisection: the engine speed at which
// the ship makes targetKn over ground under wx on headingDeg.
//
// The bracket is [0, 2.5 * MaxEngineKn] so that over-limit requirements can
// still be quantified exactly for violation reporting. Returns ErrNoSolution
// when even the top of the bracket cannot reach the target, and
// ErrNoConvergence when the iteration budget runs out first.
func EngineSpeedFor(targetKn float64, wx domain.WeatherObservation, headingDeg float64, ship domain.ShipParams, tolKn float64, maxIter int) (float64, error) {
	hi := 2.5 * ship.MaxEngineKn
	lo := 0.0

	if GroundSpeed(lo, wx, headingDeg, ship) >= targetKn {
		// The current alone carries the ship at or above the target.
		return 0, nil
	}
	if GroundSpeed(hi, wx, headingDeg, ship) < targetKn {
		return 0, fmt.Errorf("invert ground speed: target=%.3fkn heading=%.1f bn=%d: %w",
			targetKn, headingDeg, wx.Beaufort(), ErrNoSolution)
	}

	for i := 0; i < maxIter; i++ {
		if hi-lo <= tolKn {
			return (lo + hi) / 2, nil
		}
		mid := (lo + hi) / 2
		if GroundSpeed(mid, wx, headingDeg, ship) < targetKn {
			lo = mid
		} else {
			hi = mid
		}
	}

	return 0, fmt.Errorf("invert ground speed: target=%.3fkn heading=%.1f bn=%d after %d iterations (bracket %.6f..%.6f): %w",
		targetKn, headingDeg, wx.Beaufort(), maxIter, lo, hi, ErrNoConvergence)
}

// speedLossFraction is the Kwon-style fractional speed loss in [0, maxLossFraction].
func speedLossFraction(engineKn float64, wx domain.WeatherObservation, headingDeg float64, ship domain.ShipParams) float64 {
	bn := wx.Beaufort()

	lossPct := directionCoeff(relativeAngleDeg(headingDeg, wx.WindDirDeg), bn) *
		speedCoeff(froudeNumber(engineKn, ship)) *
		formCoeff(bn, ship)

	// Wave height adds drag on top of the wind-derived sea state when the
	// observation carries it; coastal gaps mean no contribution.
	if wx.WaveHeightM != nil {
		lossPct += ship.WaveDragCoeff * *wx.WaveHeightM
	}

	frac := lossPct / 100
	if frac < 0 {
		return 0
	}
	if frac > maxLossFraction {
		return maxLossFraction
	}
	return frac
}

// relativeAngleDeg folds the heading/wind-direction difference into
// [0, 180], with 0 meaning a dead-ahead wind.
func relativeAngleDeg(headingDeg, windFromDeg float64) float64 {
	d := math.Mod(math.Abs(headingDeg-windFromDeg), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// directionCoeff is Kwon's direction reduction coefficient by encounter
// sector and Beaufort number. Negative table values (light seas in the
// beam/following sectors) clamp to zero loss.
func directionCoeff(relDeg float64, bn int) float64 {
	b := float64(bn)
	var c float64
	switch {
	case relDeg < 30: // head sea
		c = 1.0
	case relDeg < 60: // bow sea
		c = (1.7 - 0.03*(b-4)*(b-4)) / 2
	case relDeg < 150: // beam sea
		c = (0.9 - 0.06*(b-6)*(b-6)) / 2
	default: // following sea
		c = (0.4 - 0.03*(b-8)*(b-8)) / 2
	}
	if c < 0 {
		return 0
	}
	return c
}

// speedCoeff is the speed reduction coefficient as a function of Froude
// number (laden full-form hull row). Clamped to be non-negative so the
// forward model never gains speed from weather.
func speedCoeff(fn float64) float64 {
	c := 1.7 - 1.4*fn - 7.4*fn*fn
	if c < 0 {
		return 0
	}
	return c
}

// formCoeff is the ship-form coefficient in percent speed loss, from
// Beaufort number and displacement volume.
func formCoeff(bn int, ship domain.ShipParams) float64 {
	if bn == 0 {
		return 0
	}
	b := float64(bn)
	volume := ship.DisplacementT / seawaterDensity
	return 0.5*b + math.Pow(b, 6.5)/(2.7*math.Pow(volume, 2.0/3.0))
}

func froudeNumber(engineKn float64, ship domain.ShipParams) float64 {
	if ship.LengthM <= 0 {
		return 0
	}
	return engineKn * knotsToMS / math.Sqrt(gravity*ship.LengthM)
}

// currentAlongKn projects the surface current onto the heading. Missing
// current fields mean still water.
func currentAlongKn(wx domain.WeatherObservation, headingDeg float64) float64 {
	if wx.CurrentSpeedKn == nil || wx.CurrentDirDeg == nil {
		return 0
	}
	rel := (*wx.CurrentDirDeg - headingDeg) * math.Pi / 180
	return *wx.CurrentSpeedKn * math.Cos(rel)
}
