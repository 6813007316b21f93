package handlers

import (
	"net/http"

	"habitq/internal/services"
)

type HeatmapHandler struct {
	heatmap *services.HeatmapService
}

func NewHeatmapHandler(heatmap *services.HeatmapService) *HeatmapHandler {
	return &HeatmapHandler{heatmap: heatmap}
}

// Get accepts optional query params month=YYYY-MM and habitId.
func (h *HeatmapHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hm, err := h.heatmap.Month(r.Context(), currentUserID(r), q.Get("habitId"), q.Get("month"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hm)
}
