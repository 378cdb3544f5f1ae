package services

import "voyage-plan-service/internal/domain"

// Summarize derives the comparator metrics for one simulated voyage.
func Summarize(res *domain.VoyageResult, totalNM float64) domain.Summary {
	var s domain.Summary

	if res.PlannedFuelT > 0 {
		s.FuelGapPercent = (res.FuelT - res.PlannedFuelT) / res.PlannedFuelT * 100
	}
	if totalNM > 0 {
		s.FuelPerNM = res.FuelT / totalNM
	}
	if res.FuelT > 0 {
		s.BoundCapturePercent = res.PlannedFuelT / res.FuelT * 100
	}

	s.ViolationCount = len(res.Violations)
	for _, v := range res.Violations {
		if v.Magnitude > s.MaxViolationKn {
			s.MaxViolationKn = v.Magnitude
		}
	}

	return s
}
