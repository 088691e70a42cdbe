package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type DashboardHandler struct {
	Dashboard *usecase.DashboardUseCase
}

func NewDashboardHandler(dashboard *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{Dashboard: dashboard}
}

func (h *DashboardHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	metrics, err := h.Dashboard.GetMetrics(r.Context(), principal.Role, principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics, "")
}

func (h *DashboardHandler) HandleAgentsPerformance(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	performance, err := h.Dashboard.GetAgentsPerformance(r.Context(), principal.Role, principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, performance, "")
}

func (h *DashboardHandler) HandleRecentActivity(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	activity, err := h.Dashboard.GetRecentActivity(r.Context(), principal.Role, principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activity, "")
}

func (h *DashboardHandler) HandleLeadsByStatus(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	byStatus, err := h.Dashboard.GetLeadsByStatus(r.Context(), principal.Role, principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, byStatus, "")
}

func (h *DashboardHandler) HandleLeadsBySource(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	bySource, err := h.Dashboard.GetLeadsBySource(r.Context(), principal.Role, principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bySource, "")
}

func (h *DashboardHandler) HandleRevenueChart(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	chart, err := h.Dashboard.GetRevenueChart(r.Context(), principal.Role, principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chart, "")
}
