// Package session ties one map context together: the viewport focus state
// machine, source/destination selection, the indoor overlay set, the modal
// mini-map and the outdoor routing lifecycle. All event handling for a
// session runs to completion under one lock.
package session

import (
	"github.com/rs/zerolog"

	"mapmycampus/core-go/internal/campus"
	"mapmycampus/core-go/internal/mapview"
	"mapmycampus/core-go/internal/metrics"
	"mapmycampus/core-go/internal/overlay"
)

// FocusState is the viewport focus mode.
type FocusState string

const (
	StateOverview        FocusState = "overview"
	StateBuildingFocused FocusState = "building_focused"
)

// FocusZoomThreshold is the zoom level at and above which settling over a
// building focuses it and indoor controls appear.
const FocusZoomThreshold = 19.0

const (
	clickFitMaxZoom  = 20
	jumpFitMaxZoom   = 21
	fitPadding       = 50
	jumpFallbackZoom = 22
)

// Viewport is the focus state machine. Overview shows no indoor detail;
// BuildingFocused pins one building and one of its floors, whose overlays
// the attached manager renders. Transitions are idempotent: re-entering the
// state already held causes no layer churn.
type Viewport struct {
	log      zerolog.Logger
	model    *campus.Model
	view     mapview.Map
	overlays *overlay.Manager
	metrics  *metrics.Metrics

	state      FocusState
	building   *campus.Building
	floorLevel string

	jumpMarker    mapview.LayerID
	hasJumpMarker bool
}

// NewViewport returns a viewport in Overview.
func NewViewport(log zerolog.Logger, model *campus.Model, view mapview.Map, overlays *overlay.Manager, m *metrics.Metrics) *Viewport {
	return &Viewport{
		log:      log,
		model:    model,
		view:     view,
		overlays: overlays,
		metrics:  m,
		state:    StateOverview,
	}
}

// State returns the current focus mode.
func (v *Viewport) State() FocusState { return v.state }

// FocusedBuilding returns the focused building, nil in Overview.
func (v *Viewport) FocusedBuilding() *campus.Building { return v.building }

// SelectedFloor returns the selected floor level, empty in Overview.
func (v *Viewport) SelectedFloor() string { return v.floorLevel }

// HandleZoomEnd reacts to a settled zoom. At or above the threshold a
// building under the viewport center gains focus with its first declared
// floor; below it the viewport returns to Overview and indoor detail goes
// away. A high zoom over open ground leaves any existing focus alone.
func (v *Viewport) HandleZoomEnd(ev mapview.ZoomEvent) {
	if ev.Zoom < FocusZoomThreshold {
		v.unfocus()
		return
	}
	if b, ok := v.model.FindBuildingContaining(ev.Center); ok {
		v.focus(b)
	}
}

// HandleClick focuses the clicked building regardless of current zoom and
// commands the camera to fit its bounds. A click on open ground changes
// nothing and reports no building.
func (v *Viewport) HandleClick(ev mapview.ClickEvent) (*campus.Building, bool) {
	b, ok := v.model.FindBuildingContaining(ev.Point)
	if !ok {
		v.log.Debug().
			Float64("lat", ev.Point.Lat).
			Float64("lng", ev.Point.Lng).
			Float64("zoom", ev.Zoom).
			Msg("map click outside any building")
		return nil, false
	}

	v.focus(b)
	v.view.FitBounds(b.Bounds, mapview.FitOptions{MaxZoom: clickFitMaxZoom, Padding: fitPadding})
	return b, true
}

// JumpToTarget flies to the configured target coordinate and drops a marker
// there. A building at the target gains focus and a bounds fit; open ground
// gets a plain zoomed view.
func (v *Viewport) JumpToTarget() {
	target := v.model.Config().JumpTarget

	if b, ok := v.model.FindBuildingContaining(target); ok {
		v.focus(b)
		v.view.FitBounds(b.Bounds, mapview.FitOptions{MaxZoom: jumpFitMaxZoom, Padding: fitPadding})
	} else {
		v.view.SetView(target, jumpFallbackZoom)
	}

	if v.hasJumpMarker {
		v.view.Remove(v.jumpMarker)
	}
	v.jumpMarker = v.view.AddMarker(target, "Target Location")
	v.hasJumpMarker = true
}

// SelectFloor switches the selected floor while focused. It reports false
// in Overview or for an unknown level.
func (v *Viewport) SelectFloor(level string) bool {
	if v.state != StateBuildingFocused {
		return false
	}
	floor, ok := v.building.FindFloor(level)
	if !ok {
		return false
	}
	v.floorLevel = level
	v.overlays.Apply(v.building, floor)
	return true
}

func (v *Viewport) focus(b *campus.Building) {
	level := v.floorLevel
	if v.state != StateBuildingFocused || v.building.ID != b.ID {
		level = b.Floors[0].Level
	}
	changed := v.state != StateBuildingFocused || v.building.ID != b.ID || v.floorLevel != level

	v.state = StateBuildingFocused
	v.building = b
	v.floorLevel = level

	floor, _ := b.FindFloor(level)
	v.overlays.Apply(b, floor)

	if changed {
		v.metrics.IncFocusTransition(string(StateBuildingFocused))
		v.log.Info().Str("building_id", b.ID).Str("floor", level).Msg("building focused")
	}
}

func (v *Viewport) unfocus() {
	if v.state == StateOverview {
		return
	}
	v.state = StateOverview
	v.building = nil
	v.floorLevel = ""
	v.overlays.Clear()
	v.metrics.IncFocusTransition(string(StateOverview))
	v.log.Info().Msg("viewport back to overview")
}
