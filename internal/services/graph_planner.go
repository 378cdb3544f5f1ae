package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"voyage-plan-service/internal/domain"
	"voyage-plan-service/internal/physics"
)

type PathPlanRequest struct {
	Route       domain.Route
	Cfg         domain.VoyageConfig
	StartHour   float64
	BudgetHours float64
	Weather     WeatherFunc
	Approach    string // label recorded on the plan; defaults to "graph"
}

// pathState is one lattice state (node index, time slot) in the flat arena.
// Parent links are arena indices, never pointers, so backtracking walks
// integers and the whole search is trivially serializable.
type pathState struct {
	node   int
	slot   int
	fuelT  float64 // minimum cumulative fuel to reach this state
	parent int32   // arena index of predecessor, -1 for the start state

	// Edge that reached this state, kept for backtracking.
	engineKn float64
	groundKn float64
	legHours float64
	legFuelT float64
}

// PlanPath finds the minimum-fuel speed schedule over a (node, time-slot)
// lattice by forward dynamic programming. Edges always advance the node
// index, so the state graph is acyclic and one pass in node order is exact.
//
// Reachable states per node live in a slot-keyed map rather than a dense
// array: at realistic granularities most slots are unreachable at most
// nodes and the sparse form keeps memory proportional to what is explored.
func PlanPath(ctx context.Context, req PathPlanRequest) (*domain.SpeedPlan, error) {
	route, cfg := req.Route, req.Cfg
	if route.Legs() < 1 {
		return nil, fmt.Errorf("plan path: route has no legs")
	}
	if len(cfg.CandidateSpeedsKn) == 0 {
		return nil, fmt.Errorf("plan path: no candidate speeds configured")
	}
	if cfg.TimeSlotHours <= 0 {
		return nil, fmt.Errorf("plan path: time slot must be positive, got %.3f", cfg.TimeSlotHours)
	}
	approach := req.Approach
	if approach == "" {
		approach = ApproachGraph
	}

	slotH := cfg.TimeSlotHours
	maxSlot := int(math.Floor(req.BudgetHours/slotH + 1e-9))
	if maxSlot < 1 {
		return nil, fmt.Errorf("plan path: budget=%.2fh below one time slot: %w", req.BudgetHours, ErrInfeasible)
	}

	states := make([]pathState, 1, 1024)
	states[0] = pathState{node: 0, slot: 0, parent: -1}

	reach := make([]map[int]int32, len(route.Waypoints))
	reach[0] = map[int]int32{0: 0}

	for leg := 0; leg < route.Legs(); leg++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("plan path: leg %d: %w", leg, err)
		}
		if len(reach[leg]) == 0 {
			continue
		}

		// Deterministic relaxation order: map iteration order must not
		// influence which parent wins cost ties.
		slots := make([]int, 0, len(reach[leg]))
		for s := range reach[leg] {
			slots = append(slots, s)
		}
		sort.Ints(slots)

		for _, slot := range slots {
			cur := reach[leg][slot]
			departHour := req.StartHour + float64(slot)*slotH

			for _, v := range cfg.CandidateSpeedsKn {
				ground, hours, fuel, err := legTransit(ctx, route, leg, v, departHour, req.Weather, cfg)
				if err != nil {
					return nil, fmt.Errorf("plan path: leg %d engine=%.1fkn: %w", leg, v, err)
				}
				if ground < cfg.MinGroundKn || ground > cfg.MaxGroundKn {
					continue
				}

				arrSlot := slot + int(math.Ceil(hours/slotH-1e-9))
				if arrSlot <= slot {
					arrSlot = slot + 1
				}
				if arrSlot > maxSlot {
					continue
				}

				cost := states[cur].fuelT + fuel
				if reach[leg+1] == nil {
					reach[leg+1] = make(map[int]int32)
				}
				if prev, ok := reach[leg+1][arrSlot]; ok && states[prev].fuelT <= cost {
					continue
				}
				states = append(states, pathState{
					node:     leg + 1,
					slot:     arrSlot,
					fuelT:    cost,
					parent:   cur,
					engineKn: v,
					groundKn: ground,
					legHours: hours,
					legFuelT: fuel,
				})
				reach[leg+1][arrSlot] = int32(len(states) - 1)
			}
		}
	}

	// Scan the final node's reachable slots for the cheapest in-budget state.
	goal := int32(-1)
	last := len(route.Waypoints) - 1
	finalSlots := make([]int, 0, len(reach[last]))
	for s := range reach[last] {
		finalSlots = append(finalSlots, s)
	}
	sort.Ints(finalSlots)
	for _, s := range finalSlots {
		idx := reach[last][s]
		if goal == -1 || states[idx].fuelT < states[goal].fuelT {
			goal = idx
		}
	}
	if goal == -1 {
		return nil, fmt.Errorf("plan path: destination node %d unreachable within %.1fh (%d slots of %.2fh): %w",
			route.Waypoints[last].NodeID, req.BudgetHours, maxSlot, slotH, ErrInfeasible)
	}

	// Backtrack parent indices into leg order.
	legs := make([]domain.PlanLeg, route.Legs())
	for idx := goal; states[idx].parent != -1; idx = states[idx].parent {
		st := states[idx]
		parent := states[st.parent]
		depart := req.StartHour + float64(parent.slot)*slotH
		legs[st.node-1] = domain.PlanLeg{
			LegIndex:       st.node - 1,
			EngineKn:       st.engineKn,
			TargetGroundKn: st.groundKn,
			DepartHour:     depart,
			ArriveHour:     depart + st.legHours,
			FuelT:          st.legFuelT,
		}
	}

	plan := &domain.SpeedPlan{
		Kind:         domain.PlanPath,
		Approach:     approach,
		Legs:         legs,
		PlannedFuelT: states[goal].fuelT,
	}
	plan.PlannedHours = legs[len(legs)-1].ArriveHour - req.StartHour

	return plan, nil
}

// legTransit computes one candidate edge: ground speed, duration, and fuel
// for sailing leg at engineKn departing at departHour.
//
// Weather is looked up at the edge's own arrival time, not a frozen
// snapshot: travel is first estimated with the departure-hour observation
// at the origin node, then finalized with the destination node's
// observation at the estimated arrival hour. A non-positive ground speed
// returns zeros and no error; callers treat the edge as unusable.
func legTransit(ctx context.Context, route domain.Route, leg int, engineKn, departHour float64, wx WeatherFunc, cfg domain.VoyageConfig) (groundKn, hours, fuelT float64, err error) {
	fromID := route.Waypoints[leg].NodeID
	toID := route.Waypoints[leg+1].NodeID
	heading := route.LegHeadingDeg(leg)
	distNM := route.LegDistanceNM(leg)

	depWx, err := wx(ctx, fromID, hourIndex(departHour))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("weather at node=%d hour=%d: %w", fromID, hourIndex(departHour), err)
	}
	estGround := physics.GroundSpeed(engineKn, depWx, heading, cfg.Ship)
	if estGround <= 0 {
		return 0, 0, 0, nil
	}

	estArrive := departHour + distNM/estGround
	arrWx, err := wx(ctx, toID, hourIndex(estArrive))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("weather at node=%d hour=%d: %w", toID, hourIndex(estArrive), err)
	}

	groundKn = physics.GroundSpeed(engineKn, arrWx, heading, cfg.Ship)
	if groundKn <= 0 {
		return 0, 0, 0, nil
	}
	hours = distNM / groundKn
	fuelT = physics.FuelRate(engineKn, cfg.Ship) * hours
	return groundKn, hours, fuelT, nil
}
