package services

import (
	"math"
	"testing"

	"voyage-plan-service/internal/domain"
)

func TestSummarize(t *testing.T) {
	res := &domain.VoyageResult{
		PlannedFuelT: 30,
		FuelT:        33,
		Violations: []domain.Violation{
			{LegIndex: 1, Magnitude: 0.4},
			{LegIndex: 4, Magnitude: 1.1},
		},
	}

	s := Summarize(res, 540)

	if math.Abs(s.FuelGapPercent-10) > 1e-9 {
		t.Errorf("fuel gap = %.4f%%, want 10", s.FuelGapPercent)
	}
	if math.Abs(s.FuelPerNM-33.0/540) > 1e-12 {
		t.Errorf("fuel per NM = %.6f, want %.6f", s.FuelPerNM, 33.0/540)
	}
	if math.Abs(s.BoundCapturePercent-30.0/33*100) > 1e-9 {
		t.Errorf("bound capture = %.4f%%, want %.4f", s.BoundCapturePercent, 30.0/33*100)
	}
	if s.ViolationCount != 2 {
		t.Errorf("violation count = %d, want 2", s.ViolationCount)
	}
	if s.MaxViolationKn != 1.1 {
		t.Errorf("max violation = %.2f, want 1.1", s.MaxViolationKn)
	}
}

func TestSummarizeZeroGuards(t *testing.T) {
	s := Summarize(&domain.VoyageResult{}, 0)

	if s.FuelGapPercent != 0 || s.FuelPerNM != 0 || s.BoundCapturePercent != 0 {
		t.Errorf("empty result must summarize to zeros, got %+v", s)
	}
}
