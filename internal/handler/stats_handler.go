package handler

import (
	"net/http"

	"field-tech-api/internal/service"
)

// StatsHandler serves the dashboard and the per-technician performance view.
type StatsHandler struct {
	dashboard   *service.DashboardService
	performance *service.PerformanceService
	scopes      *service.ScopeResolver
}

func NewStatsHandler(dashboard *service.DashboardService, performance *service.PerformanceService, scopes *service.ScopeResolver) *StatsHandler {
	return &StatsHandler{dashboard: dashboard, performance: performance, scopes: scopes}
}

func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	scope, err := h.scopes.CityScope(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	dash, err := h.dashboard.Dashboard(r.Context(), scope)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dash, nil)
}

func (h *StatsHandler) Performance(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	perf, err := h.performance.Performance(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, perf, nil)
}
