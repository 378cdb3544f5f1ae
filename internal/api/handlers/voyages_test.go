package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyage-plan-service/internal/adapters/solver"
	"voyage-plan-service/internal/adapters/weather"
	"voyage-plan-service/internal/api/dto"
	"voyage-plan-service/internal/domain"
)

func testHandler() *VoyageHandler {
	wps := make([]domain.Waypoint, 4)
	for i := range wps {
		wps[i] = domain.Waypoint{
			NodeID:       i,
			Position:     domain.Coordinates{Lon: float64(i), Lat: 0},
			CumulativeNM: 60 * float64(i),
			SegmentIndex: 0,
			Origin:       i == 0,
		}
	}

	return &VoyageHandler{
		Src:      weather.NewMockWeatherSource(wps),
		Selector: solver.NewBranchBoundSelector(),
		Cfg:      domain.DefaultVoyageConfig(),
	}
}

func TestVoyageRunHappyPath(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodPost, "/voyages",
		strings.NewReader(`{"approach":"graph","depart_hour":0}`))
	rec := httptest.NewRecorder()
	h.Run(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.VoyageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "graph", res.Approach)
	assert.NotEmpty(t, res.RunID)
	assert.Len(t, res.Legs, 3)
	assert.Greater(t, res.FuelT, 0.0)
}

func TestVoyageRunValidation(t *testing.T) {
	h := testHandler()

	cases := []struct {
		name string
		body string
		want int
	}{
		{"unknown approach", `{"approach":"teleport"}`, http.StatusBadRequest},
		{"negative depart hour", `{"approach":"graph","depart_hour":-1}`, http.StatusBadRequest},
		{"unknown field", `{"approach":"graph","warp_factor":9}`, http.StatusBadRequest},
		{"trailing object", `{"approach":"graph"}{"approach":"graph"}`, http.StatusBadRequest},
		{"non-positive budget", `{"approach":"graph","time_budget_hours":0}`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/voyages", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.Run(rec, req)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/voyages", nil)
	rec := httptest.NewRecorder()
	h.Run(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestVoyageRunInfeasibleBudget(t *testing.T) {
	h := testHandler()

	// 180 NM cannot be sailed in 2 hours at any candidate speed.
	req := httptest.NewRequest(http.MethodPost, "/voyages",
		strings.NewReader(`{"approach":"graph","time_budget_hours":2}`))
	rec := httptest.NewRecorder()
	h.Run(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
}
