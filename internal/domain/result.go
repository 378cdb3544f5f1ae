package domain

// Violation records one leg where the engine speed required to hold the
// planned ground-speed target fell outside the engine bounds and had to be
// clamped. Magnitude is the exact size of the clamp and is always positive;
// a zero-magnitude clamp is not a violation and is never recorded.
type Violation struct {
	LegIndex   int
	RequiredKn float64
	ClampedKn  float64
	Magnitude  float64
}

// LegRecord is one row of the simulator's leg-level time series.
type LegRecord struct {
	LegIndex int
	NodeFrom int
	NodeTo   int

	EngineKn float64 // engine speed actually used (after clamping)
	GroundKn float64 // ground speed achieved under actual weather
	Hours    float64
	FuelT    float64

	CumNM    float64
	CumHours float64
	CumFuelT float64
}

// Summary holds the comparator metrics derived from one simulated voyage.
type Summary struct {
	FuelGapPercent      float64 // simulated vs planned fuel
	FuelPerNM           float64 // tonnes per nautical mile sailed
	BoundCapturePercent float64 // planned fuel as a share of simulated fuel
	ViolationCount      int
	MaxViolationKn      float64
}

// VoyageResult is the artifact one (plan, actual-weather) replay produces.
// It is created fresh per run and never mutated after construction.
type VoyageResult struct {
	RunID    string
	Approach string

	PlannedFuelT float64
	PlannedHours float64

	FuelT             float64
	Hours             float64
	ArrivalDeviationH float64 // simulated minus planned arrival, hours

	Legs       []LegRecord
	Violations []Violation
	Metrics    Summary
}
