package session

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"mapmycampus/core-go/internal/campus"
	"mapmycampus/core-go/internal/mapview"
	"mapmycampus/core-go/internal/nav"
	"mapmycampus/core-go/internal/routing"
)

type fakeRouter struct {
	routeFn func(ctx context.Context, waypoints []campus.Coordinate, profile routing.Profile) (nav.Path, error)
}

func (f *fakeRouter) Route(ctx context.Context, waypoints []campus.Coordinate, profile routing.Profile) (nav.Path, error) {
	return f.routeFn(ctx, waypoints, profile)
}

func straightRouter() *fakeRouter {
	return &fakeRouter{routeFn: func(_ context.Context, wps []campus.Coordinate, _ routing.Profile) (nav.Path, error) {
		return nav.Path{wps[0], wps[len(wps)-1]}, nil
	}}
}

func countKind(layers []mapview.Layer, kind mapview.LayerKind) int {
	n := 0
	for _, l := range layers {
		if l.Kind == kind {
			n++
		}
	}
	return n
}

func TestSelectEndpoints_RendersRouteAndMarkers(t *testing.T) {
	s := New(zerolog.Nop(), testModel(), straightRouter(), nil)

	if err := s.SelectSource("gate"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.ControlsVisible() {
		t.Fatalf("expected controls still visible with only a source")
	}
	if err := s.SelectDestination("cafeteria"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Wait()

	snap := s.Snapshot()
	if snap.ControlsVisible {
		t.Fatalf("expected controls hidden once a destination is set")
	}
	if snap.Source == nil || snap.Source.ID != "gate" || snap.Destination == nil || snap.Destination.ID != "cafeteria" {
		t.Fatalf("expected both endpoints set, got %+v", snap)
	}
	if countKind(snap.Layers, mapview.KindMarker) != 2 {
		t.Fatalf("expected a marker per endpoint, got %d", countKind(snap.Layers, mapview.KindMarker))
	}
	if countKind(snap.Layers, mapview.KindPolyline) != 1 {
		t.Fatalf("expected exactly one route overlay, got %d", countKind(snap.Layers, mapview.KindPolyline))
	}
}

func TestSelectEndpoints_UnknownLocation(t *testing.T) {
	s := New(zerolog.Nop(), testModel(), straightRouter(), nil)

	if err := s.SelectSource("nowhere"); !errors.Is(err, ErrUnknownLocation) {
		t.Fatalf("expected ErrUnknownLocation, got %v", err)
	}
	if err := s.SelectDestination("nowhere"); !errors.Is(err, ErrUnknownLocation) {
		t.Fatalf("expected ErrUnknownLocation, got %v", err)
	}
}

func TestCustomEndpoints_ValidatesAndFormats(t *testing.T) {
	s := New(zerolog.Nop(), testModel(), straightRouter(), nil)

	for _, bad := range [][2]float64{
		{math.NaN(), 77.5},
		{13.1, math.Inf(1)},
		{91, 77.5},
		{13.1, 181},
	} {
		if err := s.SetCustomSource(bad[0], bad[1]); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %v, got %v", bad, err)
		}
	}
	if snap := s.Snapshot(); snap.Source != nil {
		t.Fatalf("expected rejected input to leave the selection untouched, got %+v", snap.Source)
	}

	if err := s.SetCustomSource(13.16823, 77.55811); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SetCustomDestination(13.16901, 77.55952); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Wait()

	snap := s.Snapshot()
	if snap.Source.ID != "custom-source" || snap.Source.Name != "Custom Source (13.1682, 77.5581)" {
		t.Fatalf("expected formatted custom source name, got %+v", snap.Source)
	}
	if snap.Destination.ID != "custom-destination" || !strings.HasPrefix(snap.Destination.Name, "Custom Destination (") {
		t.Fatalf("expected formatted custom destination, got %+v", snap.Destination)
	}
}

func TestReselectingSource_ReplacesMarkerAndRoute(t *testing.T) {
	s := New(zerolog.Nop(), testModel(), straightRouter(), nil)

	_ = s.SelectSource("gate")
	_ = s.SelectDestination("cafeteria")
	s.Wait()
	_ = s.SetCustomSource(13.168, 77.558)
	s.Wait()

	snap := s.Snapshot()
	if countKind(snap.Layers, mapview.KindMarker) != 2 {
		t.Fatalf("expected old source marker replaced, got %d markers", countKind(snap.Layers, mapview.KindMarker))
	}
	if countKind(snap.Layers, mapview.KindPolyline) != 1 {
		t.Fatalf("expected exactly one route overlay after reselect, got %d", countKind(snap.Layers, mapview.KindPolyline))
	}
}

func TestReset_ClearsEndpointsRouteAndMarkers(t *testing.T) {
	s := New(zerolog.Nop(), testModel(), straightRouter(), nil)

	_ = s.SelectSource("gate")
	_ = s.SelectDestination("cafeteria")
	s.Wait()
	s.Reset()

	snap := s.Snapshot()
	if snap.Source != nil || snap.Destination != nil {
		t.Fatalf("expected endpoints cleared, got %+v", snap)
	}
	if !snap.ControlsVisible {
		t.Fatalf("expected controls visible again after reset")
	}
	if len(snap.Layers) != 0 {
		t.Fatalf("expected all endpoint layers released, got %d", len(snap.Layers))
	}
}

func TestRoutingFailure_NoticeWithoutOverlay(t *testing.T) {
	failing := &fakeRouter{routeFn: func(_ context.Context, _ []campus.Coordinate, _ routing.Profile) (nav.Path, error) {
		return nil, errors.New("service down")
	}}
	s := New(zerolog.Nop(), testModel(), failing, nil)

	_ = s.SelectSource("gate")
	_ = s.SelectDestination("cafeteria")
	s.Wait()

	snap := s.Snapshot()
	if countKind(snap.Layers, mapview.KindPolyline) != 0 {
		t.Fatalf("expected no route overlay after a failure")
	}
	if len(snap.Notices) != 1 {
		t.Fatalf("expected one non-blocking notice, got %v", snap.Notices)
	}
	// The map stays usable.
	s.View().EmitClick(mapview.ClickEvent{Point: insideLibrary})
	if snap := s.Snapshot(); snap.BuildingID != "library" {
		t.Fatalf("expected the session usable after a routing failure, got %+v", snap)
	}
}

func TestSelectRooms_RendersIndoorPath(t *testing.T) {
	s := New(zerolog.Nop(), testModel(), nil, nil)

	if err := s.SelectRooms("r101", "r102"); err != ErrNotFocused {
		t.Fatalf("expected ErrNotFocused without focus, got %v", err)
	}

	s.View().EmitZoomEnd(mapview.ZoomEvent{Center: insideLibrary, Zoom: 19})
	if err := s.SelectRooms("r101", "r102"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := s.Snapshot()
	if snap.NavSourceRoom != "r101" || snap.NavTargetRoom != "r102" {
		t.Fatalf("expected room selection recorded, got %+v", snap)
	}
	var path *mapview.Layer
	for i := range snap.Layers {
		if snap.Layers[i].Kind == mapview.KindPolyline {
			path = &snap.Layers[i]
		}
	}
	if path == nil || path.Line == nil || path.Line.Color != "#43a047" || path.Line.DashArray == "" {
		t.Fatalf("expected a green dashed indoor path, got %+v", path)
	}
	// Single shared corridor: source, corridor, target.
	if len(path.Points) != 3 {
		t.Fatalf("expected a 3-point stitched path, got %v", path.Points)
	}
}

func TestSelectRooms_SameRoomYieldsNoPath(t *testing.T) {
	s := New(zerolog.Nop(), testModel(), nil, nil)
	s.View().EmitZoomEnd(mapview.ZoomEvent{Center: insideLibrary, Zoom: 19})

	if err := s.SelectRooms("r101", "r101"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if countKind(s.Snapshot().Layers, mapview.KindPolyline) != 0 {
		t.Fatalf("expected no path for identical rooms")
	}
}

func TestSelectRooms_UnknownRoom(t *testing.T) {
	s := New(zerolog.Nop(), testModel(), nil, nil)
	s.View().EmitZoomEnd(mapview.ZoomEvent{Center: insideLibrary, Zoom: 19})

	if err := s.SelectRooms("r101", "missing"); !errors.Is(err, ErrUnknownRoom) {
		t.Fatalf("expected ErrUnknownRoom, got %v", err)
	}
}

func TestFloorSwitch_ClearsIndoorPath(t *testing.T) {
	s := New(zerolog.Nop(), testModel(), nil, nil)
	s.View().EmitZoomEnd(mapview.ZoomEvent{Center: insideLibrary, Zoom: 19})
	_ = s.SelectRooms("r101", "r102")

	if err := s.SelectFloor("2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := s.Snapshot()
	if snap.NavSourceRoom != "" || countKind(snap.Layers, mapview.KindPolyline) != 0 {
		t.Fatalf("expected the indoor path scoped to its floor, got %+v", snap)
	}
}

func TestZoomOut_ClearsIndoorPath(t *testing.T) {
	s := New(zerolog.Nop(), testModel(), nil, nil)
	s.View().EmitZoomEnd(mapview.ZoomEvent{Center: insideLibrary, Zoom: 19})
	_ = s.SelectRooms("r101", "r102")

	s.View().EmitZoomEnd(mapview.ZoomEvent{Center: insideLibrary, Zoom: 15})

	if got := len(s.Snapshot().Layers); got != 0 {
		t.Fatalf("expected every focus-scoped layer gone on zoom out, got %d", got)
	}
}

func TestSetOpacity_ReflectedInSnapshot(t *testing.T) {
	s := New(zerolog.Nop(), testModel(), nil, nil)
	s.View().EmitZoomEnd(mapview.ZoomEvent{Center: insideLibrary, Zoom: 19})

	s.SetOpacity(0.4)

	snap := s.Snapshot()
	if snap.Opacity != 0.4 {
		t.Fatalf("expected opacity 0.4, got %v", snap.Opacity)
	}
	for _, l := range snap.Layers {
		if l.Kind == mapview.KindImageOverlay && l.Opacity != 0.4 {
			t.Fatalf("expected the floor plan at 0.4, got %v", l.Opacity)
		}
	}
}

func TestClose_ReleasesEverything(t *testing.T) {
	s := New(zerolog.Nop(), testModel(), straightRouter(), nil)
	s.View().EmitZoomEnd(mapview.ZoomEvent{Center: insideLibrary, Zoom: 19})
	_ = s.SelectSource("gate")
	_ = s.SelectDestination("cafeteria")
	s.Wait()

	s.Close()

	if got := s.View().LiveCount(); got != 0 {
		t.Fatalf("expected all layers released on close, got %d", got)
	}

	// Events after close must not reach the torn-down handlers.
	s.View().EmitZoomEnd(mapview.ZoomEvent{Center: insideLibrary, Zoom: 19})
	if got := s.View().LiveCount(); got != 0 {
		t.Fatalf("expected no handler activity after close, got %d layers", got)
	}
}
