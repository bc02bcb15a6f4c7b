// Package overlay owns the indoor layer set for one map context. The manager
// is keyed by the (building, floor) tuple: applying a new tuple removes every
// layer of the old one before creating the new layers, so no overlay ever
// outlives the state that produced it.
package overlay

import (
	"mapmycampus/core-go/internal/campus"
	"mapmycampus/core-go/internal/mapview"
	"mapmycampus/core-go/internal/metrics"
	"mapmycampus/core-go/internal/nav"
)

// DefaultOpacity is the initial floor-plan image opacity.
const DefaultOpacity = 0.7

var (
	roomBorder    = mapview.PolygonStyle{Color: "black", Weight: 2, FillOpacity: 0.5}
	corridorStyle = mapview.PolygonStyle{Color: "#ff9800", Weight: 2, FillOpacity: 0.4, DashArray: "6 6"}
)

// Manager renders the floor overlays for at most one (building, floor) tuple
// at a time: one optional floor-plan image, one polygon plus one label marker
// per room, one polygon per corridor.
//
// Manager is not safe for concurrent use; the owning session serializes
// access.
type Manager struct {
	renderer mapview.Renderer
	metrics  *metrics.Metrics

	buildingID string
	floorLevel string
	rendered   bool

	opacity    float64
	imageLayer mapview.LayerID
	layers     []mapview.LayerID
}

// NewManager returns a manager rendering into renderer. metrics may be nil.
func NewManager(renderer mapview.Renderer, m *metrics.Metrics) *Manager {
	return &Manager{
		renderer: renderer,
		metrics:  m,
		opacity:  DefaultOpacity,
	}
}

// Apply renders the overlays for the given tuple. A nil building or floor
// clears everything. Re-applying the current tuple is a no-op, so identical
// state transitions cause no layer churn.
func (m *Manager) Apply(building *campus.Building, floor *campus.Floor) {
	if building == nil || floor == nil {
		m.Clear()
		return
	}
	if m.rendered && m.buildingID == building.ID && m.floorLevel == floor.Level {
		return
	}

	m.Clear()

	created := 0
	if floor.ImageURL != "" {
		m.imageLayer = m.renderer.AddImageOverlay(floor.ImageURL, building.Bounds, m.opacity)
		m.layers = append(m.layers, m.imageLayer)
		created++
	}
	for _, room := range floor.Rooms {
		style := roomBorder
		style.FillColor = room.Color
		m.layers = append(m.layers, m.renderer.AddPolygon(room.Polygon, style))
		m.layers = append(m.layers, m.renderer.AddMarker(nav.Centroid(room.Polygon), room.Name))
		created += 2
	}
	for _, corridor := range floor.Corridors {
		style := corridorStyle
		if corridor.Color != "" {
			style.Color = corridor.Color
		}
		m.layers = append(m.layers, m.renderer.AddPolygon(corridor.Polygon, style))
		created++
	}

	m.buildingID = building.ID
	m.floorLevel = floor.Level
	m.rendered = true
	m.metrics.AddOverlayLayers(created, 0)
}

// SetOpacity clamps v to [0,1] and updates the floor-plan image in place.
// The value sticks across tuple changes.
func (m *Manager) SetOpacity(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	m.opacity = v
	if m.imageLayer != 0 {
		m.renderer.SetOverlayOpacity(m.imageLayer, v)
	}
}

// Opacity returns the current floor-plan image opacity.
func (m *Manager) Opacity() float64 {
	return m.opacity
}

// Clear removes every layer the manager owns.
func (m *Manager) Clear() {
	for _, id := range m.layers {
		m.renderer.Remove(id)
	}
	m.metrics.AddOverlayLayers(0, len(m.layers))
	m.layers = nil
	m.imageLayer = 0
	m.buildingID = ""
	m.floorLevel = ""
	m.rendered = false
}

// LayerCount returns how many layers the manager currently owns.
func (m *Manager) LayerCount() int {
	return len(m.layers)
}
