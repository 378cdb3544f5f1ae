package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyage-plan-service/internal/domain"
	"voyage-plan-service/internal/physics"
)

// threeNodeRoute is a 180 NM eastbound route in a single segment.
func threeNodeRoute() domain.Route {
	return domain.Route{Waypoints: []domain.Waypoint{
		{NodeID: 0, Position: domain.Coordinates{Lon: 0, Lat: 0}, CumulativeNM: 0, Origin: true},
		{NodeID: 1, Position: domain.Coordinates{Lon: 1.5, Lat: 0}, CumulativeNM: 90},
		{NodeID: 2, Position: domain.Coordinates{Lon: 3.0, Lat: 0}, CumulativeNM: 180},
	}}
}

func TestSimulateIsDeterministic(t *testing.T) {
	route := sevenNodeRoute()
	cfg := domain.DefaultVoyageConfig()

	noisyWx := func(_ context.Context, nodeID, hour int) (domain.WeatherObservation, error) {
		return domain.WeatherObservation{
			NodeID: nodeID, Hour: hour, SampleHour: hour,
			WindSpeedMS: 3 + float64((nodeID*7+hour)%6),
			WindDirDeg:  float64((30*nodeID + 5*hour) % 360),
			WaveHeightM: fptr(0.5 + 0.2*float64(nodeID)),
		}, nil
	}

	plan, err := PlanPath(context.Background(), PathPlanRequest{
		Route:       route,
		Cfg:         cfg,
		BudgetHours: cfg.TimeBudgetHours,
		Weather:     noisyWx,
	})
	require.NoError(t, err)

	first, err := Simulate(context.Background(), plan, route, cfg, noisyWx, 0)
	require.NoError(t, err)
	second, err := Simulate(context.Background(), plan, route, cfg, noisyWx, 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// A calm-water target above the engine ceiling must clamp to the ceiling and
// record the overshoot exactly.
func TestSimulateRecordsExactViolations(t *testing.T) {
	route := threeNodeRoute()
	cfg := domain.DefaultVoyageConfig()
	target := cfg.Ship.MaxEngineKn + 0.7

	plan := &domain.SpeedPlan{
		Kind:     domain.PlanSegment,
		Approach: ApproachSegment,
		Segments: []domain.SegmentTarget{
			{SegmentIndex: 0, EngineKn: cfg.Ship.MaxEngineKn, TargetGroundKn: target},
		},
	}

	res, err := Simulate(context.Background(), plan, route, cfg, calmWx, 0)
	require.NoError(t, err)

	require.Len(t, res.Violations, route.Legs())
	for i, v := range res.Violations {
		assert.Equal(t, i, v.LegIndex)
		assert.InDelta(t, target, v.RequiredKn, 1e-6, "calm water makes the inversion exact")
		assert.Equal(t, cfg.Ship.MaxEngineKn, v.ClampedKn)
		assert.InDelta(t, 0.7, v.Magnitude, 1e-6)
	}
	for _, leg := range res.Legs {
		assert.Equal(t, cfg.Ship.MaxEngineKn, leg.EngineKn)
		assert.InDelta(t, cfg.Ship.MaxEngineKn, leg.GroundKn, 1e-9)
	}

	s := Summarize(res, route.TotalNM())
	assert.Equal(t, route.Legs(), s.ViolationCount)
	assert.InDelta(t, 0.7, s.MaxViolationKn, 1e-6)
}

func TestSimulateClampsUpToMinEngine(t *testing.T) {
	route := threeNodeRoute()
	cfg := domain.DefaultVoyageConfig()
	target := cfg.Ship.MinEngineKn - 1.5

	plan := &domain.SpeedPlan{
		Kind:     domain.PlanSegment,
		Approach: ApproachSegment,
		Segments: []domain.SegmentTarget{
			{SegmentIndex: 0, EngineKn: cfg.Ship.MinEngineKn, TargetGroundKn: target},
		},
	}

	res, err := Simulate(context.Background(), plan, route, cfg, calmWx, 0)
	require.NoError(t, err)

	require.Len(t, res.Violations, route.Legs())
	for _, v := range res.Violations {
		assert.Equal(t, cfg.Ship.MinEngineKn, v.ClampedKn)
		assert.InDelta(t, 1.5, v.Magnitude, 1e-6)
	}
	// Clamping up means arriving early relative to plan targets.
	for _, leg := range res.Legs {
		assert.InDelta(t, cfg.Ship.MinEngineKn, leg.GroundKn, 1e-9)
	}
}

func TestSimulateUnachievableTarget(t *testing.T) {
	route := threeNodeRoute()
	cfg := domain.DefaultVoyageConfig()

	plan := &domain.SpeedPlan{
		Kind:     domain.PlanSegment,
		Approach: ApproachSegment,
		Segments: []domain.SegmentTarget{
			{SegmentIndex: 0, EngineKn: cfg.Ship.MaxEngineKn, TargetGroundKn: 50},
		},
	}

	_, err := Simulate(context.Background(), plan, route, cfg, calmWx, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, physics.ErrNoSolution), "got %v", err)
}

func TestSimulateRejectsMalformedPlans(t *testing.T) {
	route := threeNodeRoute()
	cfg := domain.DefaultVoyageConfig()

	_, err := Simulate(context.Background(), nil, route, cfg, calmWx, 0)
	require.Error(t, err)

	_, err = Simulate(context.Background(), &domain.SpeedPlan{Kind: "mystery"}, route, cfg, calmWx, 0)
	require.Error(t, err)

	// Path plan with the wrong leg count.
	_, err = Simulate(context.Background(), &domain.SpeedPlan{
		Kind: domain.PlanPath,
		Legs: []domain.PlanLeg{{TargetGroundKn: 10}},
	}, route, cfg, calmWx, 0)
	require.Error(t, err)

	// Segment plan missing a segment the route references.
	_, err = Simulate(context.Background(), &domain.SpeedPlan{
		Kind:     domain.PlanSegment,
		Segments: []domain.SegmentTarget{{SegmentIndex: 7, TargetGroundKn: 10}},
	}, route, cfg, calmWx, 0)
	require.Error(t, err)
}

func TestSimulateAccumulatesLegRecords(t *testing.T) {
	route := threeNodeRoute()
	cfg := domain.DefaultVoyageConfig()

	plan := &domain.SpeedPlan{
		Kind:         domain.PlanSegment,
		Approach:     ApproachSegment,
		Segments:     []domain.SegmentTarget{{SegmentIndex: 0, EngineKn: 12, TargetGroundKn: 12}},
		PlannedFuelT: 15,
		PlannedHours: 15,
	}

	res, err := Simulate(context.Background(), plan, route, cfg, calmWx, 0)
	require.NoError(t, err)

	require.Len(t, res.Legs, 2)
	assert.Empty(t, res.Violations)
	assert.InDelta(t, 15.0, res.Hours, 1e-9)
	assert.InDelta(t, 180.0, res.Legs[1].CumNM, 1e-9)
	assert.InDelta(t, res.Legs[0].FuelT+res.Legs[1].FuelT, res.FuelT, 1e-9)
	assert.InDelta(t, 0.0, res.ArrivalDeviationH, 1e-9)

	wantFuel := physics.FuelRate(12, cfg.Ship) * 15
	assert.InDelta(t, wantFuel, res.FuelT, 1e-6)
}
