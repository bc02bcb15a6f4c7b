package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mapmycampus/core-go/internal/campus"
	"mapmycampus/core-go/internal/nav"
)

// ErrNoRoute means the service answered but found no route between the
// waypoints.
var ErrNoRoute = errors.New("no route between waypoints")

// DefaultBaseURL is the public OSRM demo instance the original deployment
// pointed at.
const DefaultBaseURL = "https://router.project-osrm.org"

// Client talks to an OSRM-compatible route service.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOptions configure a Client; zero values pick sane defaults.
type ClientOptions struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient returns a route service client.
func NewClient(opts ClientOptions) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// Route queries `{base}/route/v1/{profile}/{lng},{lat};...` with full GeoJSON
// geometry. OSRM takes coordinates longitude-first; the returned path is
// converted back to (lat, lng) order.
func (c *Client) Route(ctx context.Context, waypoints []campus.Coordinate, profile Profile) (nav.Path, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("need at least 2 waypoints, got %d", len(waypoints))
	}
	if profile == "" {
		profile = ProfileFoot
	}

	var coords strings.Builder
	for i, wp := range waypoints {
		if i > 0 {
			coords.WriteByte(';')
		}
		coords.WriteString(strconv.FormatFloat(wp.Lng, 'f', -1, 64))
		coords.WriteByte(',')
		coords.WriteString(strconv.FormatFloat(wp.Lat, 'f', -1, 64))
	}
	url := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=geojson",
		c.baseURL, profile, coords.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build route request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("route request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("route service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode route response: %w", err)
	}
	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return nil, ErrNoRoute
	}

	geometry := parsed.Routes[0].Geometry.Coordinates
	path := make(nav.Path, 0, len(geometry))
	for _, c := range geometry {
		if len(c) < 2 {
			continue
		}
		path = append(path, campus.Coordinate{Lat: c[1], Lng: c[0]})
	}
	if len(path) < 2 {
		return nil, ErrNoRoute
	}
	return path, nil
}
