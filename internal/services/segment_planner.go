package services

import (
	"context"
	"errors"
	"fmt"

	"voyage-plan-service/internal/domain"
	"voyage-plan-service/internal/physics"
	"voyage-plan-service/internal/ports"
)

// Approach identifiers recorded on plans and result artifacts.
const (
	ApproachSegment = "segment"
	ApproachGraph   = "graph"
	ApproachRolling = "rolling"
)

type SegmentPlanRequest struct {
	Route      domain.Route
	Cfg        domain.VoyageConfig
	DepartHour int
	Weather    WeatherFunc
}

// segmentCandidate is one admissible (segment, engine speed) pairing in the
// selection problem handed to the optimization backend.
type segmentCandidate struct {
	segment  int
	engineKn float64
	groundKn float64
	hours    float64
	fuelT    float64
}

// PlanSegments selects one engine speed per coarse route segment: weather is
// averaged over each segment, a fuel/time table is built from the physics
// model, and the binary selection minimizing total fuel under the
// arrival-time budget is delegated to the SpeedSelector backend.
//
// Infeasibility (no combination meets the budget) is fatal for this call and
// is never retried internally.
func PlanSegments(ctx context.Context, req SegmentPlanRequest, selector ports.SpeedSelector) (*domain.SpeedPlan, error) {
	route, cfg := req.Route, req.Cfg
	if route.Legs() < 1 {
		return nil, fmt.Errorf("plan segments: route has no legs")
	}
	if len(cfg.CandidateSpeedsKn) == 0 {
		return nil, fmt.Errorf("plan segments: no candidate speeds configured")
	}

	segs, err := splitSegments(route)
	if err != nil {
		return nil, fmt.Errorf("plan segments: %w", err)
	}

	budget := cfg.TimeBudgetHours - float64(req.DepartHour)
	if budget <= 0 {
		return nil, fmt.Errorf("plan segments: depart_hour=%d leaves no time budget: %w", req.DepartHour, ErrInfeasible)
	}

	// One aggregated observation per segment, sampled at each node's
	// design-speed ETA so the averages reflect when the segment is sailed.
	aggWx := make([]domain.WeatherObservation, len(segs))
	for s, seg := range segs {
		obs := make([]domain.WeatherObservation, 0, seg.lastLeg-seg.firstLeg+2)
		for n := seg.firstLeg; n <= seg.lastLeg+1; n++ {
			eta := float64(req.DepartHour) +
				(route.Waypoints[n].CumulativeNM-route.Waypoints[0].CumulativeNM)/cfg.Ship.DesignSpeedKn
			o, err := req.Weather(ctx, route.Waypoints[n].NodeID, hourIndex(eta))
			if err != nil {
				return nil, fmt.Errorf("plan segments: weather for segment %d node=%d: %w", seg.index, route.Waypoints[n].NodeID, err)
			}
			obs = append(obs, o)
		}
		aggWx[s] = aggregateObservations(obs)
	}

	// Fuel/time table over admissible candidates only.
	var cands []segmentCandidate
	groups := make([][]int, len(segs))
	for s, seg := range segs {
		heading := bearingDeg(route.Waypoints[seg.firstLeg], route.Waypoints[seg.lastLeg+1])
		for _, v := range cfg.CandidateSpeedsKn {
			ground := physics.GroundSpeed(v, aggWx[s], heading, cfg.Ship)
			if ground < cfg.MinGroundKn || ground > cfg.MaxGroundKn {
				continue
			}
			hours := seg.distNM / ground
			groups[s] = append(groups[s], len(cands))
			cands = append(cands, segmentCandidate{
				segment:  seg.index,
				engineKn: v,
				groundKn: ground,
				hours:    hours,
				fuelT:    physics.FuelRate(v, cfg.Ship) * hours,
			})
		}
		if len(groups[s]) == 0 {
			return nil, fmt.Errorf("plan segments: segment %d has no admissible candidate speed (ground bounds %.1f..%.1fkn): %w",
				seg.index, cfg.MinGroundKn, cfg.MaxGroundKn, ErrInfeasible)
		}
	}

	costs := make([]float64, len(cands))
	times := make([]float64, len(cands))
	for i, c := range cands {
		costs[i] = c.fuelT
		times[i] = c.hours
	}

	solveCtx := ctx
	if cfg.SolverTimeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, cfg.SolverTimeout)
		defer cancel()
	}

	sel, err := selector.Solve(solveCtx, ports.SelectionProblem{
		Costs:      costs,
		Groups:     groups,
		BudgetRows: []ports.BudgetRow{{Coeffs: times, Limit: budget}},
	})
	if err != nil {
		if errors.Is(err, ports.ErrInfeasible) {
			return nil, fmt.Errorf("plan segments: budget=%.1fh segments=%d: %w", budget, len(segs), ErrInfeasible)
		}
		return nil, fmt.Errorf("plan segments: solver: %w", err)
	}

	plan := &domain.SpeedPlan{
		Kind:     domain.PlanSegment,
		Approach: ApproachSegment,
		Segments: make([]domain.SegmentTarget, 0, len(segs)),
	}
	for _, idx := range sel.Chosen {
		c := cands[idx]
		plan.Segments = append(plan.Segments, domain.SegmentTarget{
			SegmentIndex:   c.segment,
			EngineKn:       c.engineKn,
			TargetGroundKn: c.groundKn,
		})
		plan.PlannedFuelT += c.fuelT
		plan.PlannedHours += c.hours
	}

	return plan, nil
}

// segmentSpan is one contiguous run of legs sharing a segment index.
type segmentSpan struct {
	index    int
	firstLeg int
	lastLeg  int
	distNM   float64
}

// splitSegments groups the route's legs by the segment index carried on
// their departure waypoints. Indices must be dense and non-decreasing.
func splitSegments(route domain.Route) ([]segmentSpan, error) {
	var segs []segmentSpan
	for leg := 0; leg < route.Legs(); leg++ {
		idx := route.Waypoints[leg].SegmentIndex
		if len(segs) == 0 || segs[len(segs)-1].index != idx {
			if len(segs) > 0 && idx != segs[len(segs)-1].index+1 {
				return nil, fmt.Errorf("segment indices must be dense and non-decreasing: leg %d has segment %d after %d",
					leg, idx, segs[len(segs)-1].index)
			}
			segs = append(segs, segmentSpan{index: idx, firstLeg: leg, lastLeg: leg})
		} else {
			segs[len(segs)-1].lastLeg = leg
		}
		segs[len(segs)-1].distNM += route.LegDistanceNM(leg)
	}
	return segs, nil
}

// bearingDeg is the initial great-circle bearing between two waypoints.
func bearingDeg(from, to domain.Waypoint) float64 {
	span := domain.Route{Waypoints: []domain.Waypoint{from, to}}
	return span.LegHeadingDeg(0)
}
