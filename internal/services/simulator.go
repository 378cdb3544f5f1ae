package services

import (
	"context"
	"fmt"

	"voyage-plan-service/internal/domain"
	"voyage-plan-service/internal/physics"
)

// Simulate replays a finalized plan against ground-truth weather: per leg,
// the engine speed actually required to hold the plan's ground-speed target
// is found by inverting the physics model under the actual conditions at
// that leg's arrival time, clamped to the engine bounds (recording a
// Violation with the exact clamp magnitude), and the leg's fuel and time
// are accumulated from the clamped speed.
//
// This is a pure function of (plan, weather): identical inputs always
// reproduce identical outputs.
func Simulate(ctx context.Context, plan *domain.SpeedPlan, route domain.Route, cfg domain.VoyageConfig, actual WeatherFunc, startHour float64) (*domain.VoyageResult, error) {
	if plan == nil {
		return nil, fmt.Errorf("simulate: plan is nil")
	}

	targets, err := legTargets(plan, route)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}

	res := &domain.VoyageResult{
		Approach:     plan.Approach,
		PlannedFuelT: plan.PlannedFuelT,
		PlannedHours: plan.PlannedHours,
		Legs:         make([]domain.LegRecord, 0, route.Legs()),
	}

	hour := startHour
	var cumNM, cumFuel float64

	for leg := 0; leg < route.Legs(); leg++ {
		fromID := route.Waypoints[leg].NodeID
		toID := route.Waypoints[leg+1].NodeID
		heading := route.LegHeadingDeg(leg)
		distNM := route.LegDistanceNM(leg)
		target := targets[leg]

		// The target ground speed fixes the expected arrival, so the
		// arrival-time weather lookup has no circularity here.
		estArrive := hour + distNM/target
		wx, err := actual(ctx, toID, hourIndex(estArrive))
		if err != nil {
			return nil, fmt.Errorf("simulate: leg %d (node %d->%d): %w", leg, fromID, toID, err)
		}

		required, err := physics.EngineSpeedFor(target, wx, heading, cfg.Ship, cfg.InversionTolKn, cfg.InversionMaxIter)
		if err != nil {
			return nil, fmt.Errorf("simulate: leg %d (node %d->%d) target=%.2fkn: %w", leg, fromID, toID, target, err)
		}

		engine := required
		switch {
		case required > cfg.Ship.MaxEngineKn:
			engine = cfg.Ship.MaxEngineKn
			res.Violations = append(res.Violations, domain.Violation{
				LegIndex:   leg,
				RequiredKn: required,
				ClampedKn:  engine,
				Magnitude:  required - engine,
			})
		case required < cfg.Ship.MinEngineKn:
			engine = cfg.Ship.MinEngineKn
			res.Violations = append(res.Violations, domain.Violation{
				LegIndex:   leg,
				RequiredKn: required,
				ClampedKn:  engine,
				Magnitude:  engine - required,
			})
		}

		achieved := physics.GroundSpeed(engine, wx, heading, cfg.Ship)
		if achieved <= 0 {
			return nil, fmt.Errorf("simulate: leg %d (node %d->%d): no headway at engine=%.2fkn under actual weather (bn=%d): %w",
				leg, fromID, toID, engine, wx.Beaufort(), physics.ErrNoSolution)
		}

		hours := distNM / achieved
		fuel := physics.FuelRate(engine, cfg.Ship) * hours

		hour += hours
		cumNM += distNM
		cumFuel += fuel

		res.Legs = append(res.Legs, domain.LegRecord{
			LegIndex: leg,
			NodeFrom: fromID,
			NodeTo:   toID,
			EngineKn: engine,
			GroundKn: achieved,
			Hours:    hours,
			FuelT:    fuel,
			CumNM:    cumNM,
			CumHours: hour - startHour,
			CumFuelT: cumFuel,
		})
	}

	res.FuelT = cumFuel
	res.Hours = hour - startHour
	res.ArrivalDeviationH = res.Hours - plan.PlannedHours

	return res, nil
}

// legTargets expands either plan variant into one ground-speed target per
// route leg. Consumers switch on the tag; there is no field probing.
func legTargets(plan *domain.SpeedPlan, route domain.Route) ([]float64, error) {
	targets := make([]float64, route.Legs())

	switch plan.Kind {
	case domain.PlanSegment:
		bySegment := make(map[int]float64, len(plan.Segments))
		for _, s := range plan.Segments {
			bySegment[s.SegmentIndex] = s.TargetGroundKn
		}
		for leg := 0; leg < route.Legs(); leg++ {
			t, ok := bySegment[route.Waypoints[leg].SegmentIndex]
			if !ok {
				return nil, fmt.Errorf("segment plan covers no segment %d (leg %d)", route.Waypoints[leg].SegmentIndex, leg)
			}
			if t <= 0 {
				return nil, fmt.Errorf("segment %d has non-positive target %.3fkn", route.Waypoints[leg].SegmentIndex, t)
			}
			targets[leg] = t
		}

	case domain.PlanPath:
		if len(plan.Legs) != route.Legs() {
			return nil, fmt.Errorf("path plan has %d legs, route has %d", len(plan.Legs), route.Legs())
		}
		for i, leg := range plan.Legs {
			if leg.TargetGroundKn <= 0 {
				return nil, fmt.Errorf("leg %d has non-positive target %.3fkn", i, leg.TargetGroundKn)
			}
			targets[i] = leg.TargetGroundKn
		}

	default:
		return nil, fmt.Errorf("unknown plan kind %q", plan.Kind)
	}

	return targets, nil
}
