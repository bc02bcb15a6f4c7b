package mapview

import (
	"testing"

	"mapmycampus/core-go/internal/campus"
)

func TestRecorder_LayerLifecycle(t *testing.T) {
	r := NewRecorder()

	img := r.AddImageOverlay("https://img.example/f1.png",
		campus.NewBounds(campus.Coordinate{Lat: 1, Lng: 1}, campus.Coordinate{Lat: 2, Lng: 2}), 0.7)
	poly := r.AddPolygon(campus.Polygon{{Lat: 1, Lng: 1}, {Lat: 1, Lng: 2}, {Lat: 2, Lng: 2}},
		PolygonStyle{Color: "black", Weight: 2})

	if r.LiveCount() != 2 || r.CreatedCount() != 2 {
		t.Fatalf("expected 2 live/created layers, got live=%d created=%d", r.LiveCount(), r.CreatedCount())
	}

	r.Remove(poly)
	if r.LiveCount() != 1 || r.DestroyedCount() != 1 {
		t.Fatalf("expected 1 live layer after removal, got live=%d destroyed=%d", r.LiveCount(), r.DestroyedCount())
	}

	// Removing an unknown handle is a no-op.
	r.Remove(poly)
	if r.DestroyedCount() != 1 {
		t.Fatalf("expected duplicate removal to be a no-op, destroyed=%d", r.DestroyedCount())
	}

	layers := r.Layers()
	if len(layers) != 1 || layers[0].ID != img {
		t.Fatalf("expected only the image overlay to remain, got %+v", layers)
	}
}

func TestRecorder_OpacityMutatesInPlace(t *testing.T) {
	r := NewRecorder()
	img := r.AddImageOverlay("https://img.example/f1.png",
		campus.NewBounds(campus.Coordinate{Lat: 1, Lng: 1}, campus.Coordinate{Lat: 2, Lng: 2}), 0.7)

	r.SetOverlayOpacity(img, 0.3)

	l, ok := r.Layer(img)
	if !ok || l.Opacity != 0.3 {
		t.Fatalf("expected opacity 0.3 on the same layer, got ok=%v layer=%+v", ok, l)
	}
	if r.CreatedCount() != 1 || r.DestroyedCount() != 0 {
		t.Fatalf("expected no layer churn from an opacity change, created=%d destroyed=%d",
			r.CreatedCount(), r.DestroyedCount())
	}
}

func TestRecorder_EventSubscriptions(t *testing.T) {
	r := NewRecorder()

	var zooms, clicks int
	offZoom := r.OnZoomEnd(func(ZoomEvent) { zooms++ })
	offClick := r.OnClick(func(ClickEvent) { clicks++ })

	r.EmitZoomEnd(ZoomEvent{Zoom: 19})
	r.EmitClick(ClickEvent{Point: campus.Coordinate{Lat: 1, Lng: 1}})
	if zooms != 1 || clicks != 1 {
		t.Fatalf("expected one delivery each, got zooms=%d clicks=%d", zooms, clicks)
	}

	offZoom()
	offClick()
	r.EmitZoomEnd(ZoomEvent{Zoom: 12})
	r.EmitClick(ClickEvent{})
	if zooms != 1 || clicks != 1 {
		t.Fatalf("expected no deliveries after unsubscribe, got zooms=%d clicks=%d", zooms, clicks)
	}
}

func TestRecorder_CameraCommands(t *testing.T) {
	r := NewRecorder()
	if r.LastCamera() != nil {
		t.Fatalf("expected no camera command initially")
	}

	r.FitBounds(campus.NewBounds(campus.Coordinate{Lat: 1, Lng: 1}, campus.Coordinate{Lat: 2, Lng: 2}),
		FitOptions{MaxZoom: 20, Padding: 50})
	r.SetView(campus.Coordinate{Lat: 13.168, Lng: 77.558}, 22)

	cmd := r.LastCamera()
	if cmd == nil || cmd.Kind != "set_view" || cmd.Seq != 2 {
		t.Fatalf("expected latest set_view command with seq 2, got %+v", cmd)
	}
}
