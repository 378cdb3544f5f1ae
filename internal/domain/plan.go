package domain

// PlanKind tags the two speed-plan variants so consumers switch explicitly
// instead of probing for fields.
type PlanKind string

const (
	PlanSegment PlanKind = "segment" // one engine speed per coarse segment
	PlanPath    PlanKind = "path"    // one engine speed per leg, DP-backtracked
)

// SegmentTarget is one segment's selected engine speed and the ground speed
// it is expected to achieve under the segment-averaged weather.
type SegmentTarget struct {
	SegmentIndex   int
	EngineKn       float64
	TargetGroundKn float64
}

// PlanLeg is one fine-grained leg of a path plan: the engine speed chosen
// for the leg, the ground speed it targets, and the planned timing.
// Hours are voyage hours (0 = departure).
type PlanLeg struct {
	LegIndex       int
	EngineKn       float64
	TargetGroundKn float64
	DepartHour     float64
	ArriveHour     float64
	FuelT          float64
}

// SpeedPlan is the output of exactly one planner invocation. It covers the
// full route distance once, monotonically increasing in distance and time,
// and is never mutated after being returned. Rolling-horizon runs stitch
// several frozen fragments into a single PlanPath value.
type SpeedPlan struct {
	Kind     PlanKind
	Approach string

	// Kind == PlanSegment
	Segments []SegmentTarget

	// Kind == PlanPath
	Legs []PlanLeg

	PlannedFuelT float64
	PlannedHours float64
}
