package dto

type VoyageRequest struct {
	Approach            string   `json:"approach"`
	DepartHour          int      `json:"depart_hour"`
	TimeBudgetHours     *float64 `json:"time_budget_hours,omitempty"`
	ReplanIntervalHours *float64 `json:"replan_interval_hours,omitempty"`
}

type ViolationResponse struct {
	LegIndex   int     `json:"leg_index"`
	RequiredKn float64 `json:"required_kn"`
	ClampedKn  float64 `json:"clamped_kn"`
	Magnitude  float64 `json:"magnitude_kn"`
}

type LegResponse struct {
	LegIndex int     `json:"leg_index"`
	NodeFrom int     `json:"node_from"`
	NodeTo   int     `json:"node_to"`
	EngineKn float64 `json:"engine_kn"`
	GroundKn float64 `json:"ground_kn"`
	Hours    float64 `json:"hours"`
	FuelT    float64 `json:"fuel_t"`
	CumNM    float64 `json:"cum_nm"`
	CumHours float64 `json:"cum_hours"`
	CumFuelT float64 `json:"cum_fuel_t"`
}

type SummaryResponse struct {
	FuelGapPercent      float64 `json:"fuel_gap_percent"`
	FuelPerNM           float64 `json:"fuel_per_nm"`
	BoundCapturePercent float64 `json:"bound_capture_percent"`
	ViolationCount      int     `json:"violation_count"`
	MaxViolationKn      float64 `json:"max_violation_kn"`
}

type VoyageResponse struct {
	RunID             string              `json:"run_id"`
	Approach          string              `json:"approach"`
	PlannedFuelT      float64             `json:"planned_fuel_t"`
	PlannedHours      float64             `json:"planned_hours"`
	FuelT             float64             `json:"fuel_t"`
	Hours             float64             `json:"hours"`
	ArrivalDeviationH float64             `json:"arrival_deviation_h"`
	Legs              []LegResponse       `json:"legs"`
	Violations        []ViolationResponse `json:"violations"`
	Metrics           SummaryResponse     `json:"metrics"`
}
