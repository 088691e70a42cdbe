package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type AuthHandler struct {
	Auth *usecase.AuthUseCase
}

func NewAuthHandler(auth *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var input usecase.RegisterInput
	if !decodeBody(w, r, &input) {
		return
	}

	output, err := h.Auth.Register(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, output, "User registered successfully")
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var input usecase.LoginInput
	if !decodeBody(w, r, &input) {
		return
	}

	output, err := h.Auth.Login(r.Context(), input)
	if err != nil {
		// Credencial errada não revela se o e-mail existe.
		writeJSON(w, http.StatusUnauthorized, nil, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, output, "Login successful")
}

func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	user, err := h.Auth.Me(r.Context(), principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user, "")
}
