package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"voyage-plan-service/internal/domain"
	"voyage-plan-service/internal/ports"
)

// rollingState is the value threaded between replan steps: everything
// frozen so far plus the current position and clock. Each step consumes one
// and produces the next; frozen legs are never touched again.
type rollingState struct {
	nodeIdx int     // index into route.Waypoints
	hour    float64 // voyage hour at nodeIdx
	legs    []domain.PlanLeg
}

// PlanRolling runs the rolling-horizon strategy: a finite fold over decision
// points. At each point the graph planner is re-invoked over the remaining
// route with the freshest forecast available at that hour, and the resulting
// plan is frozen up to the next decision point.
//
// When UseActualNearTerm is set, legs expected before the next decision
// point are planned against ground truth (those conditions are knowable by
// then); if that injection makes the sub-problem infeasible, the step is
// retried forecast-only before a hard failure is propagated.
func PlanRolling(ctx context.Context, route domain.Route, cfg domain.VoyageConfig, startHour float64, src ports.WeatherSource) (*domain.SpeedPlan, error) {
	if route.Legs() < 1 {
		return nil, fmt.Errorf("plan rolling: route has no legs")
	}
	if cfg.ReplanIntervalHours <= 0 {
		return nil, fmt.Errorf("plan rolling: replan interval must be positive, got %.2f", cfg.ReplanIntervalHours)
	}

	state := rollingState{nodeIdx: 0, hour: startHour}
	lastNode := len(route.Waypoints) - 1

	for step := 0; state.nodeIdx < lastNode; step++ {
		budget := cfg.TimeBudgetHours - state.hour
		if budget <= 0 {
			return nil, fmt.Errorf("plan rolling: step %d at node=%d hour=%.1f: time budget exhausted before destination: %w",
				step, route.Waypoints[state.nodeIdx].NodeID, state.hour, ErrInfeasible)
		}

		sampleHour := hourIndex(state.hour)
		nextDecision := state.hour + cfg.ReplanIntervalHours
		forecast := ForecastWeather(src, sampleHour)

		// A residual window shorter than one interval is not worth a
		// separate near-term split; plan it pure-forecast and freeze all.
		residual := budget <= cfg.ReplanIntervalHours

		wxf := forecast
		injected := false
		if cfg.UseActualNearTerm && !residual {
			injected = true
			wxf = func(ctx context.Context, nodeID, hour int) (domain.WeatherObservation, error) {
				if float64(hour) < nextDecision {
					return src.Actual(ctx, nodeID, hour)
				}
				return forecast(ctx, nodeID, hour)
			}
		}

		sub := route.Tail(state.nodeIdx)
		plan, err := PlanPath(ctx, PathPlanRequest{
			Route:       sub,
			Cfg:         cfg,
			StartHour:   state.hour,
			BudgetHours: budget,
			Weather:     wxf,
			Approach:    ApproachRolling,
		})
		if err != nil && injected && errors.Is(err, ErrInfeasible) {
			// Ground-truth injection can shrink the achievable speed range
			// below what the remaining budget requires.
			log.Printf("replan step=%d node=%d hour=%.1f infeasible with actual weather, retrying forecast-only",
				step, route.Waypoints[state.nodeIdx].NodeID, state.hour)
			plan, err = PlanPath(ctx, PathPlanRequest{
				Route:       sub,
				Cfg:         cfg,
				StartHour:   state.hour,
				BudgetHours: budget,
				Weather:     forecast,
				Approach:    ApproachRolling,
			})
		}
		if err != nil {
			return nil, fmt.Errorf("plan rolling: step %d at node=%d hour=%.1f: %w",
				step, route.Waypoints[state.nodeIdx].NodeID, state.hour, err)
		}

		// Freeze the prefix up to the next decision point; always at least
		// one leg so the fold makes progress.
		frozen := 0
		for _, leg := range plan.Legs {
			if frozen > 0 && !residual && leg.ArriveHour > nextDecision {
				break
			}
			state.legs = append(state.legs, domain.PlanLeg{
				LegIndex:       state.nodeIdx + frozen,
				EngineKn:       leg.EngineKn,
				TargetGroundKn: leg.TargetGroundKn,
				DepartHour:     leg.DepartHour,
				ArriveHour:     leg.ArriveHour,
				FuelT:          leg.FuelT,
			})
			frozen++
		}

		state = rollingState{
			nodeIdx: state.nodeIdx + frozen,
			hour:    state.legs[len(state.legs)-1].ArriveHour,
			legs:    state.legs,
		}
	}

	plan := &domain.SpeedPlan{
		Kind:     domain.PlanPath,
		Approach: ApproachRolling,
		Legs:     state.legs,
	}
	for _, leg := range state.legs {
		plan.PlannedFuelT += leg.FuelT
	}
	plan.PlannedHours = state.legs[len(state.legs)-1].ArriveHour - startHour

	return plan, nil
}
