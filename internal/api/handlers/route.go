package handlers

import (
	"log"
	"net/http"

	"voyage-plan-service/internal/api/dto"
	"voyage-plan-service/internal/domain"
	"voyage-plan-service/internal/ports"
)

// RouteHandler exposes the read-only route metadata endpoint.
type RouteHandler struct {
	Src ports.WeatherSource
}

func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	waypoints, err := h.Src.RouteMetadata(r.Context())
	if err != nil {
		log.Printf("route metadata failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.RouteResponse{
		Waypoints: make([]dto.WaypointResponse, 0, len(waypoints)),
		TotalNM:   domain.Route{Waypoints: waypoints}.TotalNM(),
	}
	for _, wp := range waypoints {
		res.Waypoints = append(res.Waypoints, dto.WaypointResponse{
			NodeID:       wp.NodeID,
			Lon:          wp.Position.Lon,
			Lat:          wp.Position.Lat,
			CumulativeNM: wp.CumulativeNM,
			SegmentIndex: wp.SegmentIndex,
			Origin:       wp.Origin,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
