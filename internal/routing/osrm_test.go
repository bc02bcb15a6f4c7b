package routing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mapmycampus/core-go/internal/campus"
)

var testWaypoints = []campus.Coordinate{
	{Lat: 13.168, Lng: 77.558},
	{Lat: 13.169, Lng: 77.559},
}

func TestClientRoute_ParsesGeometry(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"geometry":{"coordinates":[[77.558,13.168],[77.5585,13.1685],[77.559,13.169]]}}]}`))
	}))
	defer srv.Close()

	c := NewClient(ClientOptions{BaseURL: srv.URL})
	path, err := c.Route(context.Background(), testWaypoints, ProfileFoot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(gotPath, "/route/v1/foot/") {
		t.Fatalf("expected foot profile in path, got %q", gotPath)
	}
	if !strings.Contains(gotPath, "77.558,13.168;77.559,13.169") {
		t.Fatalf("expected lng,lat waypoint order, got %q", gotPath)
	}
	if !strings.Contains(gotQuery, "geometries=geojson") {
		t.Fatalf("expected geojson geometry, got query %q", gotQuery)
	}

	if len(path) != 3 {
		t.Fatalf("expected 3 path points, got %d", len(path))
	}
	if path[0] != testWaypoints[0] || path[2] != testWaypoints[1] {
		t.Fatalf("expected lat/lng conversion back, got %v", path)
	}
}

func TestClientRoute_NoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}))
	defer srv.Close()

	c := NewClient(ClientOptions{BaseURL: srv.URL})
	if _, err := c.Route(context.Background(), testWaypoints, ProfileFoot); !errors.Is(err, ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}
}

func TestClientRoute_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(ClientOptions{BaseURL: srv.URL})
	if _, err := c.Route(context.Background(), testWaypoints, ProfileFoot); err == nil {
		t.Fatalf("expected an error for a 400 response")
	}
}

func TestClientRoute_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(ClientOptions{BaseURL: srv.URL})
	if _, err := c.Route(ctx, testWaypoints, ProfileFoot); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestClientRoute_TooFewWaypoints(t *testing.T) {
	c := NewClient(ClientOptions{})
	if _, err := c.Route(context.Background(), testWaypoints[:1], ProfileFoot); err == nil {
		t.Fatalf("expected an error with a single waypoint")
	}
}
