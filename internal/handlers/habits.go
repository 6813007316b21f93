package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"habitq/internal/services"
)

type HabitHandler struct {
	habits *services.HabitService
}

func NewHabitHandler(habits *services.HabitService) *HabitHandler {
	return &HabitHandler{habits: habits}
}

func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.habits.List(r.Context(), currentUserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body habitRequest
	if err := decode(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	habit, err := h.habits.Create(r.Context(), currentUserID(r), services.HabitInput(body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, habit)
}

func (h *HabitHandler) Get(w http.ResponseWriter, r *http.Request) {
	habit, err := h.habits.Get(r.Context(), currentUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body habitRequest
	if err := decode(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	habit, err := h.habits.Update(r.Context(), currentUserID(r), chi.URLParam(r, "id"), services.HabitInput(body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.habits.Delete(r.Context(), currentUserID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success{Success: true})
}
