package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type LeadHandler struct {
	Lifecycle *usecase.LeadLifecycleUseCase
}

func NewLeadHandler(lifecycle *usecase.LeadLifecycleUseCase) *LeadHandler {
	return &LeadHandler{Lifecycle: lifecycle}
}

func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	var input usecase.CreateLeadInput
	if !decodeBody(w, r, &input) {
		return
	}

	lead, err := h.Lifecycle.Create(r.Context(), input, principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordLeadCreated(string(lead.Source))
	writeJSON(w, http.StatusCreated, lead, "Lead created successfully")
}

func (h *LeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	lead, err := h.Lifecycle.Get(r.Context(), id, principal.Role, principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lead, "")
}

func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())
	filters := parseLeadFilters(r)

	page, err := h.Lifecycle.List(r.Context(), filters, principal.Role, principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page, "")
}

func (h *LeadHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var input usecase.UpdateLeadInput
	if !decodeBody(w, r, &input) {
		return
	}

	lead, err := h.Lifecycle.Update(r.Context(), id, input, principal.Role, principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lead, "Lead updated successfully")
}

func (h *LeadHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var input usecase.UpdateLeadStatusInput
	if !decodeBody(w, r, &input) {
		return
	}

	lead, err := h.Lifecycle.UpdateStatus(r.Context(), id, input, principal.Role, principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordStatusChange(string(lead.Status))
	writeJSON(w, http.StatusOK, lead, "Lead status updated successfully")
}

func (h *LeadHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	outcome, err := h.Lifecycle.Remove(r.Context(), id, principal.Role, principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	// Caller precisa saber se foi arquivamento ou remoção definitiva.
	if outcome == usecase.OutcomeArchived {
		writeJSON(w, http.StatusOK, map[string]string{"outcome": string(outcome)}, "Lead archived successfully")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"outcome": string(outcome)}, "Lead deleted successfully")
}

func (h *LeadHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	stats, err := h.Lifecycle.Stats(r.Context(), principal.Role, principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats, "")
}

func parseLeadFilters(r *http.Request) usecase.LeadFilters {
	q := r.URL.Query()

	filters := usecase.LeadFilters{
		Search:        q.Get("search"),
		Status:        q.Get("status"),
		Source:        q.Get("source"),
		Priority:      q.Get("priority"),
		AssignedAgent: q.Get("assignedAgent"),
		SortBy:        q.Get("sortBy"),
		SortOrder:     q.Get("sortOrder"),
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filters.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filters.Limit = limit
	}
	if from := q.Get("dateFrom"); from != "" {
		if t, err := parseDateParam(from); err == nil {
			filters.DateFrom = &t
		}
	}
	if to := q.Get("dateTo"); to != "" {
		if t, err := parseDateParam(to); err == nil {
			// Limite superior inclusivo: fim do dia quando vier só a data.
			if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
				t = t.Add(24*time.Hour - time.Nanosecond)
			}
			filters.DateTo = &t
		}
	}

	return filters
}

func parseDateParam(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
