package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// Envelope padrão da API: {success, data, message}.
type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{
		Success: status < 400,
		Data:    data,
		Message: message,
	})
}

// writeError traduz a taxonomia de erros do core para status HTTP.
// O core nunca decide status; só o transporte.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case usecase.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, nil, err.Error())
	case usecase.IsForbidden(err):
		writeJSON(w, http.StatusForbidden, nil, err.Error())
	case usecase.IsConflict(err):
		writeJSON(w, http.StatusConflict, nil, err.Error())
	case usecase.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, nil, err.Error())
	default:
		writeJSON(w, http.StatusInternalServerError, nil, "internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "invalid JSON")
		return false
	}
	return true
}
