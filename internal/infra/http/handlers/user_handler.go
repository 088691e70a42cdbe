package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type UserHandler struct {
	Users *usecase.UsersUseCase
}

func NewUserHandler(users *usecase.UsersUseCase) *UserHandler {
	return &UserHandler{Users: users}
}

func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateUserInput
	if !decodeBody(w, r, &input) {
		return
	}

	user, err := h.Users.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user, "User created successfully")
}

func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	users, err := h.Users.FindAll(r.Context(), q.Get("search"), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users, "")
}

func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user, "")
}

func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateUserInput
	if !decodeBody(w, r, &input) {
		return
	}

	user, err := h.Users.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user, "User updated successfully")
}

func (h *UserHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil, "User deactivated successfully")
}

func (h *UserHandler) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	perf, err := h.Users.AgentPerformance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, perf, "")
}
