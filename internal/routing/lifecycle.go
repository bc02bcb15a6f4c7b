package routing

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mapmycampus/core-go/internal/campus"
	"mapmycampus/core-go/internal/mapview"
	"mapmycampus/core-go/internal/metrics"
	"mapmycampus/core-go/internal/nav"
)

// Route overlay styles. The main map draws blue, the modal mini-map red.
var (
	MainLineStyle  = mapview.LineStyle{Color: "#6FA1EC", Weight: 4}
	ModalLineStyle = mapview.LineStyle{Color: "#FF6B6B", Weight: 4}
)

// Lifecycle keeps at most one outdoor route request in flight and at most
// one route overlay alive. Every endpoint change supersedes whatever came
// before it: the in-flight request is cancelled and the overlay removed
// before a new request is issued, and a superseded request's late resolution
// is discarded by generation check.
type Lifecycle struct {
	log      zerolog.Logger
	renderer mapview.Renderer
	router   Router
	metrics  *metrics.Metrics
	style    mapview.LineStyle
	profile  Profile

	mu         sync.Mutex
	wg         sync.WaitGroup
	generation int64
	cancel     context.CancelFunc
	overlay    mapview.LayerID
	hasOverlay bool
	notice     string
}

// LifecycleOptions configure a Lifecycle; zero values pick defaults.
type LifecycleOptions struct {
	Style   mapview.LineStyle
	Profile Profile
}

// NewLifecycle returns a lifecycle rendering into renderer via router.
// metrics may be nil; router may be nil, in which case updates only clear.
func NewLifecycle(log zerolog.Logger, renderer mapview.Renderer, router Router, m *metrics.Metrics, opts LifecycleOptions) *Lifecycle {
	style := opts.Style
	if style == (mapview.LineStyle{}) {
		style = MainLineStyle
	}
	profile := opts.Profile
	if profile == "" {
		profile = ProfileFoot
	}
	return &Lifecycle{
		log:      log,
		renderer: renderer,
		router:   router,
		metrics:  m,
		style:    style,
		profile:  profile,
	}
}

// Update reacts to an endpoint change. It unconditionally cancels any
// in-flight request and removes the active overlay first; only when both
// endpoints are set does it issue a new request. The request runs in its own
// goroutine so the caller never blocks on the external service.
func (l *Lifecycle) Update(source, destination *campus.Location) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.supersedeLocked()
	l.notice = ""

	waypoints, ok := nav.OutdoorWaypoints(source, destination)
	if !ok || l.router == nil {
		return
	}

	l.generation++
	gen := l.generation
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel

	l.wg.Add(1)
	go l.request(ctx, gen, waypoints)
}

func (l *Lifecycle) request(ctx context.Context, gen int64, waypoints []campus.Coordinate) {
	defer l.wg.Done()

	start := time.Now()
	path, err := l.router.Route(ctx, waypoints, l.profile)
	l.metrics.ObserveRoutingDuration(time.Since(start))

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation {
		l.metrics.IncRoutingRequest("superseded")
		return
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}

	if err != nil {
		l.metrics.IncRoutingRequest("failed")
		l.notice = "Could not find a route between the selected locations."
		l.log.Warn().Err(err).Msg("outdoor routing request failed")
		return
	}

	l.overlay = l.renderer.AddPolyline(path, l.style)
	l.hasOverlay = true
	l.metrics.IncRoutingRequest("ok")
}

// supersedeLocked cancels the in-flight request and removes the overlay.
// Callers hold l.mu.
func (l *Lifecycle) supersedeLocked() {
	l.generation++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	if l.hasOverlay {
		l.renderer.Remove(l.overlay)
		l.hasOverlay = false
	}
}

// Clear cancels any in-flight request and removes the overlay and notice.
func (l *Lifecycle) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.supersedeLocked()
	l.notice = ""
}

// Notice returns the pending failure notice, if any. Notices never block the
// view; the next endpoint change clears them.
func (l *Lifecycle) Notice() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.notice
}

// HasOverlay reports whether a route overlay is currently rendered.
func (l *Lifecycle) HasOverlay() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasOverlay
}

// Wait blocks until every issued request has resolved, superseded ones
// included. Used on shutdown and by tests.
func (l *Lifecycle) Wait() {
	l.wg.Wait()
}
