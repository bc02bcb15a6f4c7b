package session

import (
	"mapmycampus/core-go/internal/campus"
	"mapmycampus/core-go/internal/mapview"
)

// FloorInfo is one floor entry in a snapshot.
type FloorInfo struct {
	Level    string `json:"level"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

// ModalSnapshot is the client-facing state of the indoor-navigation dialog.
type ModalSnapshot struct {
	Open          bool                   `json:"open"`
	BuildingID    string                 `json:"building_id,omitempty"`
	BuildingName  string                 `json:"building_name,omitempty"`
	Floors        []FloorInfo            `json:"floors,omitempty"`
	SelectedFloor string                 `json:"selected_floor,omitempty"`
	FloorImageURL string                 `json:"floor_image_url,omitempty"`
	Notice        string                 `json:"notice,omitempty"`
	Layers        []mapview.Layer        `json:"layers"`
	Camera        *mapview.CameraCommand `json:"camera,omitempty"`
}

// Snapshot is the full client-facing session state.
type Snapshot struct {
	Focus           FocusState             `json:"focus"`
	BuildingID      string                 `json:"building_id,omitempty"`
	BuildingName    string                 `json:"building_name,omitempty"`
	Floors          []FloorInfo            `json:"floors,omitempty"`
	SelectedFloor   string                 `json:"selected_floor,omitempty"`
	Opacity         float64                `json:"opacity"`
	ControlsVisible bool                   `json:"controls_visible"`
	Source          *campus.Location       `json:"source,omitempty"`
	Destination     *campus.Location       `json:"destination,omitempty"`
	NavSourceRoom   string                 `json:"nav_source_room,omitempty"`
	NavTargetRoom   string                 `json:"nav_target_room,omitempty"`
	Notices         []string               `json:"notices,omitempty"`
	Layers          []mapview.Layer        `json:"layers"`
	Camera          *mapview.CameraCommand `json:"camera,omitempty"`
	Modal           ModalSnapshot          `json:"modal"`
}

func floorInfos(b *campus.Building) []FloorInfo {
	if b == nil {
		return nil
	}
	out := make([]FloorInfo, 0, len(b.Floors))
	for _, f := range b.Floors {
		out = append(out, FloorInfo{Level: f.Level, Name: f.Name, ImageURL: f.ImageURL})
	}
	return out
}

// Snapshot captures the session for the client, taken under the session
// lock like any other operation.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Focus:           s.viewport.State(),
		SelectedFloor:   s.viewport.SelectedFloor(),
		Opacity:         s.overlays.Opacity(),
		ControlsVisible: s.destination == nil,
		Source:          s.source,
		Destination:     s.destination,
		NavSourceRoom:   s.navSourceRoom,
		NavTargetRoom:   s.navTargetRoom,
		Layers:          s.view.Layers(),
		Camera:          s.view.LastCamera(),
	}
	if b := s.viewport.FocusedBuilding(); b != nil {
		snap.BuildingID = b.ID
		snap.BuildingName = b.Name
		snap.Floors = floorInfos(b)
	}
	if notice := s.routing.Notice(); notice != "" {
		snap.Notices = append(snap.Notices, notice)
	}

	snap.Modal = ModalSnapshot{
		Open:   s.modal.IsOpen(),
		Layers: s.modal.View().Layers(),
		Camera: s.modal.View().LastCamera(),
		Notice: s.modal.routing.Notice(),
	}
	if b := s.modal.Building(); b != nil {
		snap.Modal.BuildingID = b.ID
		snap.Modal.BuildingName = b.Name
		snap.Modal.Floors = floorInfos(b)
		snap.Modal.SelectedFloor = s.modal.SelectedFloor()
		snap.Modal.FloorImageURL = s.modal.FloorImageURL()
	}
	return snap
}
