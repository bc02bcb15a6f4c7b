package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mapmycampus/core-go/internal/campus"
)

func (h *Handler) handleGetCampus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.model.Config())
}

func (h *Handler) handleGetBuilding(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b, ok := h.model.Building(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, "not_found", "building not found", map[string]any{"id": id})
		return
	}
	h.writeJSON(w, http.StatusOK, b)
}

type layoutResponse struct {
	Center    campus.Coordinate   `json:"center"`
	Zoom      float64             `json:"zoom"`
	Rooms     []campus.Room       `json:"rooms"`
	Corridors []campus.Corridor   `json:"corridors"`
	Paths     []campus.PathSpec   `json:"paths,omitempty"`
	Source    *campus.Coordinate  `json:"source,omitempty"`
	Target    *campus.Coordinate  `json:"target,omitempty"`
	NavPath   []campus.Coordinate `json:"nav_path,omitempty"`
}

func (h *Handler) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	if h.layout == nil {
		h.writeError(w, http.StatusNotFound, "not_found", "no custom layout configured", nil)
		return
	}

	resp := layoutResponse{
		Center:    h.layout.Center,
		Zoom:      h.layout.Zoom,
		Rooms:     h.layout.Rooms,
		Corridors: h.layout.Corridors,
		Source:    h.layout.Source,
		Target:    h.layout.Target,
	}
	// With both endpoints present the direct line replaces the pre-drawn
	// paths; otherwise the paths show as-is.
	if h.layout.Source != nil && h.layout.Target != nil {
		resp.NavPath = []campus.Coordinate{*h.layout.Source, *h.layout.Target}
	} else {
		resp.Paths = h.layout.Paths
	}
	h.writeJSON(w, http.StatusOK, resp)
}
