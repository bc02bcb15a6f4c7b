package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandler_nilMetrics(t *testing.T) {
	var m *Metrics
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	m.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if got := rr.Body.String(); !strings.Contains(got, "metrics unavailable") {
		t.Fatalf("expected body to mention metrics unavailable, got %q", got)
	}
}

func TestHandler_exposesRegisteredMetrics(t *testing.T) {
	m := New()
	m.ObserveHTTPRequest(http.MethodGet, "/readyz", http.StatusOK, 12*time.Millisecond)
	m.AddOverlayLayers(5, 3)
	m.IncRoutingRequest("ok")
	m.ObserveRoutingDuration(250 * time.Millisecond)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	m.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	body := rr.Body.String()
	if !strings.Contains(body, "campus_http_requests_total{method=\"GET\",path=\"/readyz\",status=\"200\"} 1") {
		t.Fatalf("expected labeled request counter to be incremented; body=%s", body)
	}
	if !strings.Contains(body, "campus_overlay_layers_created_total 5") {
		t.Fatalf("expected overlay created counter to be incremented; body=%s", body)
	}
	if !strings.Contains(body, "campus_overlay_layers_removed_total 3") {
		t.Fatalf("expected overlay removed counter to be incremented; body=%s", body)
	}
	if !strings.Contains(body, "campus_routing_requests_total{outcome=\"ok\"} 1") {
		t.Fatalf("expected routing outcome counter to be incremented; body=%s", body)
	}
	if !strings.Contains(body, "campus_routing_request_duration_seconds_count 1") {
		t.Fatalf("expected routing duration histogram to have one observation; body=%s", body)
	}
}

func TestNilMetricsMethodsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.AddOverlayLayers(1, 1)
	m.IncFocusTransition("building_focused")
	m.IncRoutingRequest("failed")
	m.ObserveRoutingDuration(time.Second)
}
