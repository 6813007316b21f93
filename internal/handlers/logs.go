package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"habitq/internal/services"
)

type LogHandler struct {
	logs *services.LogService
}

func NewLogHandler(logs *services.LogService) *LogHandler {
	return &LogHandler{logs: logs}
}

// List returns a habit's logs. ?view=daily collapses them to one row per day
// with a count; ?view=aggregate returns {date, completedCount} pairs.
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")
	if view != "" && view != "daily" && view != "aggregate" {
		writeError(w, r, &services.ValidationError{Field: "view", Message: "View must be daily or aggregate"})
		return
	}

	logs, err := h.logs.ListByHabit(r.Context(), currentUserID(r), chi.URLParam(r, "habitId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	switch view {
	case "daily":
		writeJSON(w, http.StatusOK, services.Daily(logs, h.logs.Location()))
	case "aggregate":
		writeJSON(w, http.StatusOK, services.Aggregate(logs, h.logs.Location()))
	default:
		writeJSON(w, http.StatusOK, logs)
	}
}

func (h *LogHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var body toggleRequest
	if err := decode(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.logs.Toggle(r.Context(), currentUserID(r), services.ToggleInput(body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if res.Deleted {
		writeJSON(w, http.StatusOK, toggleDeleted{Success: true, Deleted: true, Removed: res.Removed})
		return
	}
	writeJSON(w, http.StatusOK, res.Log)
}
