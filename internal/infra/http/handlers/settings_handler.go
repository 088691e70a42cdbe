package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type SettingsHandler struct {
	Settings *usecase.SettingsUseCase
}

func NewSettingsHandler(settings *usecase.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{Settings: settings}
}

func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	settings, err := h.Settings.GetOrCreate(r.Context(), principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings, "")
}

func (h *SettingsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	var input usecase.UpdateSettingsInput
	if !decodeBody(w, r, &input) {
		return
	}

	settings, err := h.Settings.Update(r.Context(), principal.ID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings, "Settings updated successfully")
}

func (h *SettingsHandler) HandleDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Settings.Defaults(), "")
}
