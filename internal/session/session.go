package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"mapmycampus/core-go/internal/campus"
	"mapmycampus/core-go/internal/mapview"
	"mapmycampus/core-go/internal/metrics"
	"mapmycampus/core-go/internal/nav"
	"mapmycampus/core-go/internal/overlay"
	"mapmycampus/core-go/internal/routing"
)

// Input and lookup failures surfaced to the API layer. None of them mutate
// session state.
var (
	ErrInvalidInput    = errors.New("invalid coordinate input")
	ErrUnknownLocation = errors.New("unknown location")
	ErrNotFocused      = errors.New("no building focused")
	ErrUnknownFloor    = errors.New("unknown floor")
	ErrUnknownRoom     = errors.New("unknown room")
	ErrModalClosed     = errors.New("modal not open")
)

var navLineStyle = mapview.LineStyle{Color: "#43a047", Weight: 6, DashArray: "10 10"}

// Session is one map context. Every operation and every viewport event runs
// to completion under the session lock; the only work that escapes it is the
// outdoor routing request, which synchronizes through its own lifecycle.
type Session struct {
	mu      sync.Mutex
	log     zerolog.Logger
	model   *campus.Model
	metrics *metrics.Metrics

	view     *mapview.Recorder
	overlays *overlay.Manager
	viewport *Viewport
	routing  *routing.Lifecycle
	modal    *Modal

	source      *campus.Location
	destination *campus.Location

	sourceMarker    mapview.LayerID
	destMarker      mapview.LayerID
	hasSourceMarker bool
	hasDestMarker   bool

	navSourceRoom string
	navTargetRoom string
	navPath       mapview.LayerID
	hasNavPath    bool

	unsubscribe []func()
}

// New builds a session over the shared campus model. router may be nil,
// which disables outdoor routing; metrics may be nil.
func New(log zerolog.Logger, model *campus.Model, router routing.Router, m *metrics.Metrics) *Session {
	view := mapview.NewRecorder()
	overlays := overlay.NewManager(view, m)
	s := &Session{
		log:      log,
		model:    model,
		metrics:  m,
		view:     view,
		overlays: overlays,
		viewport: NewViewport(log, model, view, overlays, m),
		routing:  routing.NewLifecycle(log, view, router, m, routing.LifecycleOptions{}),
		modal:    NewModal(log, model, router, m),
	}

	s.unsubscribe = append(s.unsubscribe,
		view.OnZoomEnd(s.handleZoomEnd),
		view.OnClick(s.handleClick),
	)
	return s
}

// View exposes the session's map recorder; viewport events enter through it.
func (s *Session) View() *mapview.Recorder { return s.view }

// Modal exposes the indoor-navigation dialog.
func (s *Session) Modal() *Modal { return s.modal }

func (s *Session) handleZoomEnd(ev mapview.ZoomEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.focusTuple()
	s.viewport.HandleZoomEnd(ev)
	if s.focusTuple() != before {
		s.clearNavLocked()
	}
}

func (s *Session) handleClick(ev mapview.ClickEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.focusTuple()
	b, ok := s.viewport.HandleClick(ev)
	if s.focusTuple() != before {
		s.clearNavLocked()
	}
	if ok {
		s.modal.Open(b)
	} else {
		s.modal.Close()
	}
}

// focusTuple identifies the state the indoor layers are scoped to.
func (s *Session) focusTuple() [2]string {
	var buildingID string
	if b := s.viewport.FocusedBuilding(); b != nil {
		buildingID = b.ID
	}
	return [2]string{buildingID, s.viewport.SelectedFloor()}
}

// SelectSource picks a predefined location as the route source.
func (s *Session) SelectSource(locationID string) error {
	loc, ok := s.model.Location(locationID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLocation, locationID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setSourceLocked(loc)
	return nil
}

// SelectDestination picks a predefined location as the route destination and
// hides the input controls.
func (s *Session) SelectDestination(locationID string) error {
	loc, ok := s.model.Location(locationID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLocation, locationID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setDestinationLocked(loc)
	return nil
}

// SetCustomSource builds a source from raw coordinates. Invalid input is
// rejected and leaves the selection untouched.
func (s *Session) SetCustomSource(lat, lng float64) error {
	loc, err := customLocation("custom-source", "Source", lat, lng)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setSourceLocked(loc)
	return nil
}

// SetCustomDestination builds a destination from raw coordinates.
func (s *Session) SetCustomDestination(lat, lng float64) error {
	loc, err := customLocation("custom-destination", "Destination", lat, lng)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setDestinationLocked(loc)
	return nil
}

func customLocation(id, label string, lat, lng float64) (*campus.Location, error) {
	c := campus.Coordinate{Lat: lat, Lng: lng}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: (%v, %v)", ErrInvalidInput, lat, lng)
	}
	return &campus.Location{
		ID:          id,
		Name:        fmt.Sprintf("Custom %s (%.4f, %.4f)", label, lat, lng),
		Coordinates: c,
	}, nil
}

func (s *Session) setSourceLocked(loc *campus.Location) {
	if s.hasSourceMarker {
		s.view.Remove(s.sourceMarker)
	}
	s.source = loc
	s.sourceMarker = s.view.AddMarker(loc.Coordinates, "Source: "+loc.Name)
	s.hasSourceMarker = true
	s.routing.Update(s.source, s.destination)
}

func (s *Session) setDestinationLocked(loc *campus.Location) {
	if s.hasDestMarker {
		s.view.Remove(s.destMarker)
	}
	s.destination = loc
	s.destMarker = s.view.AddMarker(loc.Coordinates, "Destination: "+loc.Name)
	s.hasDestMarker = true
	s.routing.Update(s.source, s.destination)
}

// Reset clears both endpoints, their markers and the route overlay, and
// shows the input controls again.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.routing.Clear()
	if s.hasSourceMarker {
		s.view.Remove(s.sourceMarker)
		s.hasSourceMarker = false
	}
	if s.hasDestMarker {
		s.view.Remove(s.destMarker)
		s.hasDestMarker = false
	}
	s.source = nil
	s.destination = nil
}

// ControlsVisible reports whether the endpoint input controls show; they
// hide once a destination is set and return on Reset.
func (s *Session) ControlsVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destination == nil
}

// SelectFloor switches the focused building's floor. The indoor navigation
// selection is scoped to the floor and resets with it.
func (s *Session) SelectFloor(level string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.viewport.State() != StateBuildingFocused {
		return ErrNotFocused
	}
	if !s.viewport.SelectFloor(level) {
		return fmt.Errorf("%w: %q", ErrUnknownFloor, level)
	}
	s.clearNavLocked()
	return nil
}

// SelectRooms picks the indoor navigation endpoints on the selected floor
// and renders the stitched path. Picking the same room for both ends is
// valid and yields no path.
func (s *Session) SelectRooms(sourceRoomID, targetRoomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.viewport.FocusedBuilding()
	if b == nil {
		return ErrNotFocused
	}
	level := s.viewport.SelectedFloor()
	floor, _ := b.FindFloor(level)

	src, ok := b.FindRoom(level, sourceRoomID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRoom, sourceRoomID)
	}
	dst, ok := b.FindRoom(level, targetRoomID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRoom, targetRoomID)
	}

	s.clearNavLocked()
	s.navSourceRoom = sourceRoomID
	s.navTargetRoom = targetRoomID

	if path := nav.IndoorPath(src, dst, floor.Corridors); path != nil {
		s.navPath = s.view.AddPolyline(path, navLineStyle)
		s.hasNavPath = true
	}
	return nil
}

func (s *Session) clearNavLocked() {
	if s.hasNavPath {
		s.view.Remove(s.navPath)
		s.hasNavPath = false
	}
	s.navSourceRoom = ""
	s.navTargetRoom = ""
}

// SetOpacity adjusts the floor-plan overlay opacity.
func (s *Session) SetOpacity(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlays.SetOpacity(v)
}

// JumpToTarget flies to the configured target coordinate.
func (s *Session) JumpToTarget() {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.focusTuple()
	s.viewport.JumpToTarget()
	if s.focusTuple() != before {
		s.clearNavLocked()
	}
}

// OpenModal opens the indoor-navigation dialog for a building by id.
func (s *Session) OpenModal(buildingID string) error {
	b, ok := s.model.Building(buildingID)
	if !ok {
		return fmt.Errorf("%w: building %q", ErrUnknownLocation, buildingID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal.Open(b)
	return nil
}

// CloseModal dismisses the dialog.
func (s *Session) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal.Close()
}

// SelectModalFloor switches the dialog's floor.
func (s *Session) SelectModalFloor(level string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.modal.IsOpen() {
		return ErrModalClosed
	}
	if !s.modal.SelectFloor(level) {
		return fmt.Errorf("%w: %q", ErrUnknownFloor, level)
	}
	return nil
}

// Wait blocks until outstanding routing requests of the session and its
// modal have resolved.
func (s *Session) Wait() {
	s.routing.Wait()
	s.modal.Wait()
}

// Close tears the session down: event subscriptions come off, in-flight
// requests are cancelled, all layers released.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, off := range s.unsubscribe {
		off()
	}
	s.unsubscribe = nil

	s.routing.Clear()
	s.modal.Close()
	s.overlays.Clear()
	s.clearNavLocked()
	for _, l := range s.view.Layers() {
		s.view.Remove(l.ID)
	}
	s.source = nil
	s.destination = nil
	s.hasSourceMarker = false
	s.hasDestMarker = false
}
