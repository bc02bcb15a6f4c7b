package httpapi

import (
	"net/http"

	"mapmycampus/core-go/internal/campus"
	"mapmycampus/core-go/internal/mapview"
	"mapmycampus/core-go/internal/session"
)

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := newSessionID()
	s := session.New(h.log.With().Str("session_id", id).Logger(), h.model, h.router, h.metrics)

	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()

	h.journal(r.Context(), id, "created", nil)
	h.writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s, _, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()

	s.Close()
	h.journal(r.Context(), id, "closed", nil)
	w.WriteHeader(http.StatusNoContent)
}

type zoomEventRequest struct {
	Center campus.Coordinate `json:"center"`
	Zoom   float64           `json:"zoom"`
}

func (h *Handler) handleZoomEvent(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	var req zoomEventRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_failed", "invalid json body", map[string]any{"error": err.Error()})
		return
	}

	s.View().EmitZoomEnd(mapview.ZoomEvent{Center: req.Center, Zoom: req.Zoom})
	h.journal(r.Context(), id, "zoom", map[string]any{"zoom": req.Zoom})
	h.writeJSON(w, http.StatusOK, s.Snapshot())
}

type clickEventRequest struct {
	Point campus.Coordinate `json:"point"`
	Zoom  float64           `json:"zoom"`
}

func (h *Handler) handleClickEvent(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	var req clickEventRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_failed", "invalid json body", map[string]any{"error": err.Error()})
		return
	}

	s.View().EmitClick(mapview.ClickEvent{Point: req.Point, Zoom: req.Zoom})
	h.journal(r.Context(), id, "click", map[string]any{"lat": req.Point.Lat, "lng": req.Point.Lng})
	h.writeJSON(w, http.StatusOK, s.Snapshot())
}

// endpointRequest selects a route endpoint: either a predefined location by
// id, or a custom coordinate pair.
type endpointRequest struct {
	LocationID string   `json:"location_id,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
}

func (h *Handler) handleSetSource(w http.ResponseWriter, r *http.Request) {
	h.handleSetEndpoint(w, r, "source",
		func(s *session.Session, id string) error { return s.SelectSource(id) },
		func(s *session.Session, lat, lng float64) error { return s.SetCustomSource(lat, lng) })
}

func (h *Handler) handleSetDestination(w http.ResponseWriter, r *http.Request) {
	h.handleSetEndpoint(w, r, "destination",
		func(s *session.Session, id string) error { return s.SelectDestination(id) },
		func(s *session.Session, lat, lng float64) error { return s.SetCustomDestination(lat, lng) })
}

func (h *Handler) handleSetEndpoint(w http.ResponseWriter, r *http.Request, kind string,
	selectByID func(*session.Session, string) error,
	setCustom func(*session.Session, float64, float64) error,
) {
	s, id, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	var req endpointRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_failed", "invalid json body", map[string]any{"error": err.Error()})
		return
	}

	var err error
	switch {
	case req.LocationID != "":
		err = selectByID(s, req.LocationID)
	case req.Lat != nil && req.Lng != nil:
		err = setCustom(s, *req.Lat, *req.Lng)
	default:
		h.writeError(w, http.StatusBadRequest, "validation_failed", "either location_id or lat/lng is required", nil)
		return
	}
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	h.journal(r.Context(), id, kind, map[string]any{"location_id": req.LocationID})
	h.writeJSON(w, http.StatusOK, s.Snapshot())
}

type roomsRequest struct {
	SourceRoomID string `json:"source_room_id"`
	TargetRoomID string `json:"target_room_id"`
}

func (h *Handler) handleSelectRooms(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	var req roomsRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_failed", "invalid json body", map[string]any{"error": err.Error()})
		return
	}

	if err := s.SelectRooms(req.SourceRoomID, req.TargetRoomID); err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.journal(r.Context(), id, "rooms", map[string]any{"source": req.SourceRoomID, "target": req.TargetRoomID})
	h.writeJSON(w, http.StatusOK, s.Snapshot())
}

type floorRequest struct {
	Level string `json:"level"`
}

func (h *Handler) handleSelectFloor(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	var req floorRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_failed", "invalid json body", map[string]any{"error": err.Error()})
		return
	}

	if err := s.SelectFloor(req.Level); err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.journal(r.Context(), id, "floor", map[string]any{"level": req.Level})
	h.writeJSON(w, http.StatusOK, s.Snapshot())
}

type opacityRequest struct {
	Opacity float64 `json:"opacity"`
}

func (h *Handler) handleSetOpacity(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	var req opacityRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_failed", "invalid json body", map[string]any{"error": err.Error()})
		return
	}

	s.SetOpacity(req.Opacity)
	h.journal(r.Context(), id, "opacity", map[string]any{"opacity": req.Opacity})
	h.writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	s.Reset()
	h.journal(r.Context(), id, "reset", nil)
	h.writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) handleJump(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	s.JumpToTarget()
	h.journal(r.Context(), id, "jump", nil)
	h.writeJSON(w, http.StatusOK, s.Snapshot())
}

type modalRequest struct {
	Action     string `json:"action"` // "open", "close" or "floor"
	BuildingID string `json:"building_id,omitempty"`
	Level      string `json:"level,omitempty"`
}

func (h *Handler) handleModal(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	var req modalRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_failed", "invalid json body", map[string]any{"error": err.Error()})
		return
	}

	var err error
	switch req.Action {
	case "open":
		err = s.OpenModal(req.BuildingID)
	case "close":
		s.CloseModal()
	case "floor":
		err = s.SelectModalFloor(req.Level)
	default:
		h.writeError(w, http.StatusBadRequest, "validation_failed", "action must be open, close or floor", nil)
		return
	}
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.journal(r.Context(), id, "modal", map[string]any{"action": req.Action})
	h.writeJSON(w, http.StatusOK, s.Snapshot())
}

// CloseSessions tears down every live session; used on shutdown.
func (h *Handler) CloseSessions() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, s := range h.sessions {
		s.Close()
		delete(h.sessions, id)
	}
}
