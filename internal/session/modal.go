package session

import (
	"github.com/rs/zerolog"

	"mapmycampus/core-go/internal/campus"
	"mapmycampus/core-go/internal/mapview"
	"mapmycampus/core-go/internal/metrics"
	"mapmycampus/core-go/internal/overlay"
	"mapmycampus/core-go/internal/routing"
)

// The modal's illustrative walking route, fixed for every building.
var (
	modalSampleSource = campus.Location{
		ID:   "sample-source",
		Name: "Entrance",
		Coordinates: campus.Coordinate{
			Lat: 13.16791,
			Lng: 77.558363,
		},
	}
	modalSampleDestination = campus.Location{
		ID:   "sample-destination",
		Name: "Room 101",
		Coordinates: campus.Coordinate{
			Lat: 13.16806,
			Lng: 77.558283,
		},
	}
)

const modalViewZoom = 20

// Modal is the indoor-navigation dialog. It owns an independent mini-map
// with its own recorder, overlay manager and routing lifecycle, so opening
// and closing it never touches the main map's layers. While open it always
// shows the fixed sample route.
type Modal struct {
	log     zerolog.Logger
	model   *campus.Model
	metrics *metrics.Metrics

	view     *mapview.Recorder
	overlays *overlay.Manager
	routing  *routing.Lifecycle

	open       bool
	building   *campus.Building
	floorLevel string
}

// NewModal returns a closed modal routing through router (may be nil).
func NewModal(log zerolog.Logger, model *campus.Model, router routing.Router, m *metrics.Metrics) *Modal {
	view := mapview.NewRecorder()
	return &Modal{
		log:      log,
		model:    model,
		metrics:  m,
		view:     view,
		overlays: overlay.NewManager(view, m),
		routing: routing.NewLifecycle(log, view, router, m, routing.LifecycleOptions{
			Style: routing.ModalLineStyle,
		}),
	}
}

// IsOpen reports whether the modal is showing.
func (m *Modal) IsOpen() bool { return m.open }

// Building returns the building the modal shows, nil when closed.
func (m *Modal) Building() *campus.Building { return m.building }

// SelectedFloor returns the modal's floor level, empty when closed.
func (m *Modal) SelectedFloor() string { return m.floorLevel }

// View exposes the modal's mini-map recorder for snapshots.
func (m *Modal) View() *mapview.Recorder { return m.view }

// Open shows the modal for b with its first declared floor, renders the
// floor overlays and markers, and issues the sample route.
func (m *Modal) Open(b *campus.Building) {
	if b == nil {
		return
	}
	m.Close()

	m.open = true
	m.building = b
	m.floorLevel = b.Floors[0].Level

	m.view.SetView(b.Bounds.Center(), modalViewZoom)
	floor, _ := b.FindFloor(m.floorLevel)
	m.overlays.Apply(b, floor)
	m.view.AddMarker(modalSampleSource.Coordinates, modalSampleSource.Name)
	m.view.AddMarker(modalSampleDestination.Coordinates, modalSampleDestination.Name)
	m.routing.Update(&modalSampleSource, &modalSampleDestination)

	m.log.Info().Str("building_id", b.ID).Msg("indoor navigation modal opened")
}

// SelectFloor switches the modal's floor while open.
func (m *Modal) SelectFloor(level string) bool {
	if !m.open {
		return false
	}
	floor, ok := m.building.FindFloor(level)
	if !ok {
		return false
	}
	m.floorLevel = level
	m.overlays.Apply(m.building, floor)
	return true
}

// FloorImageURL returns the current floor's plan image, exposed flat for
// the dialog chrome next to the mini-map.
func (m *Modal) FloorImageURL() string {
	if !m.open {
		return ""
	}
	floor, ok := m.building.FindFloor(m.floorLevel)
	if !ok {
		return ""
	}
	return floor.ImageURL
}

// Close dismisses the modal and releases everything it rendered.
func (m *Modal) Close() {
	if !m.open {
		return
	}
	m.routing.Clear()
	m.overlays.Clear()
	for _, l := range m.view.Layers() {
		m.view.Remove(l.ID)
	}
	m.open = false
	m.building = nil
	m.floorLevel = ""
}

// Wait blocks until the modal's in-flight route request, if any, resolves.
func (m *Modal) Wait() {
	m.routing.Wait()
}
