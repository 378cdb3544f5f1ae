package domain

import "time"

// VoyageConfig carries every knob the planners and the simulator need.
// It is built once at the composition root and passed by value everywhere;
// there is no process-wide mutable configuration.
type VoyageConfig struct {
	Ship ShipParams

	TimeBudgetHours float64 // arrival deadline, voyage hours

	// Discrete engine speeds (knots) every planner chooses from.
	CandidateSpeedsKn []float64

	// Achieved ground speed must stay inside these bounds for a candidate
	// to be admissible at plan time.
	MinGroundKn float64
	MaxGroundKn float64

	TimeSlotHours       float64 // DP lattice time granularity
	ReplanIntervalHours float64 // rolling-horizon decision-point spacing

	// When true, the rolling controller substitutes actual weather for the
	// portion of the route expected before the next decision point.
	UseActualNearTerm bool

	InversionTolKn   float64 // bisection tolerance for the physics inversion
	InversionMaxIter int

	SolverTimeout time.Duration // wall-clock budget for the MILP backend
}

// DefaultVoyageConfig returns the configuration used by local runs; the
// composition roots override individual fields from the environment.
func DefaultVoyageConfig() VoyageConfig {
	return VoyageConfig{
		Ship:                DefaultShip(),
		TimeBudgetHours:     48,
		CandidateSpeedsKn:   []float64{8, 9, 10, 11, 12, 13, 14, 15, 16, 17},
		MinGroundKn:         4.0,
		MaxGroundKn:         22.0,
		TimeSlotHours:       0.5,
		ReplanIntervalHours: 6,
		UseActualNearTerm:   true,
		InversionTolKn:      1e-7,
		InversionMaxIter:    200,
		SolverTimeout:       10 * time.Second,
	}
}
