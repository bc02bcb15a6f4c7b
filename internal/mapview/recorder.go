package mapview

import (
	"sort"
	"sync"

	"mapmycampus/core-go/internal/campus"
)

// Layer is one recorded layer with everything a client needs to draw it.
type Layer struct {
	ID      LayerID             `json:"id"`
	Kind    LayerKind           `json:"kind"`
	URL     string              `json:"url,omitempty"`
	Bounds  *campus.Bounds      `json:"bounds,omitempty"`
	Opacity float64             `json:"opacity,omitempty"`
	Ring    campus.Polygon      `json:"ring,omitempty"`
	Points  []campus.Coordinate `json:"points,omitempty"`
	Polygon *PolygonStyle       `json:"polygon_style,omitempty"`
	Line    *LineStyle          `json:"line_style,omitempty"`
	At      *campus.Coordinate  `json:"at,omitempty"`
	Label   string              `json:"label,omitempty"`
}

// CameraCommand is the latest one-shot viewport command. Seq lets a client
// apply each command exactly once.
type CameraCommand struct {
	Seq    int64              `json:"seq"`
	Kind   string             `json:"kind"` // "fit_bounds" or "set_view"
	Bounds *campus.Bounds     `json:"bounds,omitempty"`
	Fit    *FitOptions        `json:"fit,omitempty"`
	Center *campus.Coordinate `json:"center,omitempty"`
	Zoom   float64            `json:"zoom,omitempty"`
}

// Recorder implements the Map contract in process. It records the live layer
// set and the last camera command so the HTTP API can ship them to a thin
// client, and it fans viewport events out to subscribers. It also counts
// layer creates and destroys, which the lifecycle tests lean on.
type Recorder struct {
	mu sync.RWMutex

	nextLayer  LayerID
	layers     map[LayerID]Layer
	created    int
	destroyed  int
	cameraSeq  int64
	lastCamera *CameraCommand

	nextSub int64
	onZoom  map[int64]func(ZoomEvent)
	onClick map[int64]func(ClickEvent)
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		layers:  make(map[LayerID]Layer),
		onZoom:  make(map[int64]func(ZoomEvent)),
		onClick: make(map[int64]func(ClickEvent)),
	}
}

func (r *Recorder) add(l Layer) LayerID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextLayer++
	l.ID = r.nextLayer
	r.layers[l.ID] = l
	r.created++
	return l.ID
}

func (r *Recorder) AddImageOverlay(url string, bounds campus.Bounds, opacity float64) LayerID {
	b := bounds
	return r.add(Layer{Kind: KindImageOverlay, URL: url, Bounds: &b, Opacity: opacity})
}

func (r *Recorder) AddPolygon(ring campus.Polygon, style PolygonStyle) LayerID {
	s := style
	return r.add(Layer{Kind: KindPolygon, Ring: ring, Polygon: &s})
}

func (r *Recorder) AddPolyline(points []campus.Coordinate, style LineStyle) LayerID {
	s := style
	return r.add(Layer{Kind: KindPolyline, Points: points, Line: &s})
}

func (r *Recorder) AddMarker(at campus.Coordinate, label string) LayerID {
	p := at
	return r.add(Layer{Kind: KindMarker, At: &p, Label: label})
}

func (r *Recorder) SetOverlayOpacity(id LayerID, opacity float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.layers[id]
	if !ok || l.Kind != KindImageOverlay {
		return
	}
	l.Opacity = opacity
	r.layers[id] = l
}

func (r *Recorder) Remove(id LayerID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.layers[id]; !ok {
		return
	}
	delete(r.layers, id)
	r.destroyed++
}

func (r *Recorder) FitBounds(b campus.Bounds, opts FitOptions) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cameraSeq++
	bc := b
	oc := opts
	r.lastCamera = &CameraCommand{Seq: r.cameraSeq, Kind: "fit_bounds", Bounds: &bc, Fit: &oc}
}

func (r *Recorder) SetView(center campus.Coordinate, zoom float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cameraSeq++
	c := center
	r.lastCamera = &CameraCommand{Seq: r.cameraSeq, Kind: "set_view", Center: &c, Zoom: zoom}
}

func (r *Recorder) OnZoomEnd(fn func(ZoomEvent)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSub++
	id := r.nextSub
	r.onZoom[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.onZoom, id)
	}
}

func (r *Recorder) OnClick(fn func(ClickEvent)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSub++
	id := r.nextSub
	r.onClick[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.onClick, id)
	}
}

// EmitZoomEnd delivers a zoom-end event to current subscribers.
func (r *Recorder) EmitZoomEnd(ev ZoomEvent) {
	for _, fn := range r.zoomSubscribers() {
		fn(ev)
	}
}

// EmitClick delivers a click event to current subscribers.
func (r *Recorder) EmitClick(ev ClickEvent) {
	for _, fn := range r.clickSubscribers() {
		fn(ev)
	}
}

func (r *Recorder) zoomSubscribers() []func(ZoomEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]func(ZoomEvent), 0, len(r.onZoom))
	for _, fn := range r.onZoom {
		out = append(out, fn)
	}
	return out
}

func (r *Recorder) clickSubscribers() []func(ClickEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]func(ClickEvent), 0, len(r.onClick))
	for _, fn := range r.onClick {
		out = append(out, fn)
	}
	return out
}

// Layers returns the live layer set ordered by handle.
func (r *Recorder) Layers() []Layer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Layer, 0, len(r.layers))
	for _, l := range r.layers {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Layer returns a single live layer by handle.
func (r *Recorder) Layer(id LayerID) (Layer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.layers[id]
	return l, ok
}

// LastCamera returns the most recent camera command, if any.
func (r *Recorder) LastCamera() *CameraCommand {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.lastCamera == nil {
		return nil
	}
	c := *r.lastCamera
	return &c
}

// LiveCount returns the number of layers currently rendered.
func (r *Recorder) LiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.layers)
}

// CreatedCount returns the total number of layers ever created.
func (r *Recorder) CreatedCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.created
}

// DestroyedCount returns the total number of layers ever removed.
func (r *Recorder) DestroyedCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.destroyed
}
