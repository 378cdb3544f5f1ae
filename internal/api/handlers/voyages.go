package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"voyage-plan-service/internal/api/dto"
	"voyage-plan-service/internal/domain"
	"voyage-plan-service/internal/ports"
	"voyage-plan-service/internal/services"
)

type VoyageHandler struct {
	Src      ports.WeatherSource
	Selector ports.SpeedSelector
	Cfg      domain.VoyageConfig
}

// Run executes one planning approach against the stored weather and returns
// the full result artifact: planned vs simulated fuel/time, the leg-level
// time series, violations, and summary metrics.
func (h *VoyageHandler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.VoyageRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	switch req.Approach {
	case services.ApproachSegment, services.ApproachGraph, services.ApproachRolling:
	default:
		writeError(w, r, http.StatusBadRequest, "approach must be one of: segment, graph, rolling")
		return
	}

	if req.DepartHour < 0 {
		writeError(w, r, http.StatusBadRequest, "depart_hour must be non-negative")
		return
	}

	cfg := h.Cfg
	if req.TimeBudgetHours != nil {
		if *req.TimeBudgetHours <= 0 {
			writeError(w, r, http.StatusBadRequest, "time_budget_hours must be positive")
			return
		}
		cfg.TimeBudgetHours = *req.TimeBudgetHours
	}
	if req.ReplanIntervalHours != nil {
		if *req.ReplanIntervalHours <= 0 {
			writeError(w, r, http.StatusBadRequest, "replan_interval_hours must be positive")
			return
		}
		cfg.ReplanIntervalHours = *req.ReplanIntervalHours
	}

	res, err := services.RunVoyage(r.Context(), services.RunVoyageRequest{
		Approach:   req.Approach,
		Cfg:        cfg,
		DepartHour: req.DepartHour,
	}, h.Src, h.Selector)
	if err != nil {
		if errors.Is(err, services.ErrInfeasible) {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.Printf("run voyage failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toVoyageResponse(res))
}

func toVoyageResponse(res *domain.VoyageResult) dto.VoyageResponse {
	out := dto.VoyageResponse{
		RunID:             res.RunID,
		Approach:          res.Approach,
		PlannedFuelT:      res.PlannedFuelT,
		PlannedHours:      res.PlannedHours,
		FuelT:             res.FuelT,
		Hours:             res.Hours,
		ArrivalDeviationH: res.ArrivalDeviationH,
		Legs:              make([]dto.LegResponse, 0, len(res.Legs)),
		Violations:        make([]dto.ViolationResponse, 0, len(res.Violations)),
		Metrics: dto.SummaryResponse{
			FuelGapPercent:      res.Metrics.FuelGapPercent,
			FuelPerNM:           res.Metrics.FuelPerNM,
			BoundCapturePercent: res.Metrics.BoundCapturePercent,
			ViolationCount:      res.Metrics.ViolationCount,
			MaxViolationKn:      res.Metrics.MaxViolationKn,
		},
	}

	for _, l := range res.Legs {
		out.Legs = append(out.Legs, dto.LegResponse{
			LegIndex: l.LegIndex,
			NodeFrom: l.NodeFrom,
			NodeTo:   l.NodeTo,
			EngineKn: l.EngineKn,
			GroundKn: l.GroundKn,
			Hours:    l.Hours,
			FuelT:    l.FuelT,
			CumNM:    l.CumNM,
			CumHours: l.CumHours,
			CumFuelT: l.CumFuelT,
		})
	}
	for _, v := range res.Violations {
		out.Violations = append(out.Violations, dto.ViolationResponse{
			LegIndex:   v.LegIndex,
			RequiredKn: v.RequiredKn,
			ClampedKn:  v.ClampedKn,
			Magnitude:  v.Magnitude,
		})
	}

	return out
}
