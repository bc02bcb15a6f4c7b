// Package mapview defines the contract the core consumes from the external
// mapping engine: layer creation and teardown by handle, camera commands,
// and viewport event subscriptions with explicit unsubscribe functions.
// The engine receives its full configuration at construction; the core keeps
// no global mutable map state.
package mapview

import "mapmycampus/core-go/internal/campus"

// LayerID is an opaque handle to one rendered map layer.
type LayerID int64

// LayerKind discriminates the layer types the core can create.
type LayerKind string

const (
	KindImageOverlay LayerKind = "image_overlay"
	KindPolygon      LayerKind = "polygon"
	KindPolyline     LayerKind = "polyline"
	KindMarker       LayerKind = "marker"
)

// PolygonStyle mirrors the path options the mapping engine understands.
type PolygonStyle struct {
	Color       string  `json:"color"`
	Weight      float64 `json:"weight"`
	FillColor   string  `json:"fill_color,omitempty"`
	FillOpacity float64 `json:"fill_opacity"`
	DashArray   string  `json:"dash_array,omitempty"`
}

// LineStyle styles a polyline layer.
type LineStyle struct {
	Color     string  `json:"color"`
	Weight    float64 `json:"weight"`
	DashArray string  `json:"dash_array,omitempty"`
}

// Renderer creates and destroys map layers. Every Add returns a handle the
// owner must keep; handles are the only way to release a layer.
type Renderer interface {
	AddImageOverlay(url string, bounds campus.Bounds, opacity float64) LayerID
	AddPolygon(ring campus.Polygon, style PolygonStyle) LayerID
	AddPolyline(points []campus.Coordinate, style LineStyle) LayerID
	AddMarker(at campus.Coordinate, label string) LayerID

	// SetOverlayOpacity mutates an existing image overlay in place; it must
	// not recreate the layer.
	SetOverlayOpacity(id LayerID, opacity float64)

	Remove(id LayerID)
}

// FitOptions tune a FitBounds command.
type FitOptions struct {
	MaxZoom float64 `json:"max_zoom,omitempty"`
	Padding int     `json:"padding,omitempty"`
}

// Camera issues one-shot viewport commands.
type Camera interface {
	FitBounds(b campus.Bounds, opts FitOptions)
	SetView(center campus.Coordinate, zoom float64)
}

// ZoomEvent is emitted after the viewport zoom settles.
type ZoomEvent struct {
	Center campus.Coordinate `json:"center"`
	Zoom   float64           `json:"zoom"`
}

// ClickEvent is emitted for a click on the map.
type ClickEvent struct {
	Point campus.Coordinate `json:"point"`
	Zoom  float64           `json:"zoom"`
}

// Events exposes viewport event subscriptions. The returned unsubscribe
// function is stored by the subscriber and invoked deterministically on
// teardown; a closure capturing ambient state is never registered twice.
type Events interface {
	OnZoomEnd(fn func(ZoomEvent)) (unsubscribe func())
	OnClick(fn func(ClickEvent)) (unsubscribe func())
}

// Map is the full collaborator surface a session binds to.
type Map interface {
	Renderer
	Camera
	Events
}
