package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"voyage-plan-service/internal/domain"
	"voyage-plan-service/internal/ports"
)

type RunVoyageRequest struct {
	Approach   string
	Cfg        domain.VoyageConfig
	DepartHour int
}

// RunVoyage executes one full experiment: plan the route with the requested
// strategy, then replay the finalized plan against ground-truth weather and
// attach the comparator metrics. A failed plan aborts the run; the
// simulator never sees a partially computed plan.
func RunVoyage(ctx context.Context, req RunVoyageRequest, src ports.WeatherSource, selector ports.SpeedSelector) (*domain.VoyageResult, error) {
	waypoints, err := src.RouteMetadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("run voyage: route metadata: %w", err)
	}
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("run voyage: route has %d waypoints, need at least 2", len(waypoints))
	}
	route := domain.Route{Waypoints: waypoints}

	startHour := float64(req.DepartHour)

	var plan *domain.SpeedPlan
	switch req.Approach {
	case ApproachSegment:
		plan, err = PlanSegments(ctx, SegmentPlanRequest{
			Route:      route,
			Cfg:        req.Cfg,
			DepartHour: req.DepartHour,
			Weather:    ForecastWeather(src, req.DepartHour),
		}, selector)

	case ApproachGraph:
		plan, err = PlanPath(ctx, PathPlanRequest{
			Route:       route,
			Cfg:         req.Cfg,
			StartHour:   startHour,
			BudgetHours: req.Cfg.TimeBudgetHours - startHour,
			Weather:     ForecastWeather(src, req.DepartHour),
		})

	case ApproachRolling:
		plan, err = PlanRolling(ctx, route, req.Cfg, startHour, src)

	default:
		return nil, fmt.Errorf("run voyage: unknown approach %q", req.Approach)
	}
	if err != nil {
		return nil, fmt.Errorf("run voyage: approach=%q depart_hour=%d: %w", req.Approach, req.DepartHour, err)
	}

	res, err := Simulate(ctx, plan, route, req.Cfg, ActualWeather(src), startHour)
	if err != nil {
		return nil, fmt.Errorf("run voyage: approach=%q: %w", req.Approach, err)
	}

	res.RunID = uuid.NewString()
	res.Approach = req.Approach
	res.Metrics = Summarize(res, route.TotalNM())

	return res, nil
}
