// Package campus holds the spatial data model for the campus map: buildings,
// floors, rooms, corridors and named locations. The model is loaded once at
// startup and is read-only afterwards; queries never fail, they return
// "not found".
package campus

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Valid reports whether both components are finite and in range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// UnmarshalYAML accepts either a {lat, lng} mapping or a [lat, lng] pair,
// matching the shapes the original map configs use.
func (c *Coordinate) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var pair []float64
		if err := value.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("coordinate pair must have 2 elements, got %d", len(pair))
		}
		c.Lat, c.Lng = pair[0], pair[1]
		return nil
	case yaml.MappingNode:
		var aux struct {
			Lat float64 `yaml:"lat"`
			Lng float64 `yaml:"lng"`
		}
		if err := value.Decode(&aux); err != nil {
			return err
		}
		c.Lat, c.Lng = aux.Lat, aux.Lng
		return nil
	default:
		return fmt.Errorf("coordinate must be a [lat, lng] pair or a lat/lng mapping")
	}
}

// Polygon is a closed ring of coordinates. Closure is implicit: the last
// point connects back to the first. A usable ring has at least 3 distinct
// points.
type Polygon []Coordinate

// DistinctPoints counts vertices after collapsing exact duplicates.
func (p Polygon) DistinctPoints() int {
	seen := make(map[Coordinate]struct{}, len(p))
	for _, c := range p {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// Bounds is an axis-aligned rectangle given by its two opposite corners.
// Corners are normalized on load so SouthWest/NorthEast are literal.
type Bounds struct {
	SouthWest Coordinate `json:"south_west"`
	NorthEast Coordinate `json:"north_east"`
}

// UnmarshalYAML accepts the [[lat, lng], [lat, lng]] corner-pair form used
// by the map configs and normalizes corner order.
func (b *Bounds) UnmarshalYAML(value *yaml.Node) error {
	var corners []Coordinate
	if err := value.Decode(&corners); err != nil {
		return err
	}
	if len(corners) != 2 {
		return fmt.Errorf("bounds must have exactly 2 corners, got %d", len(corners))
	}
	*b = NewBounds(corners[0], corners[1])
	return nil
}

// NewBounds builds a normalized rectangle from two opposite corners in any
// order.
func NewBounds(a, c Coordinate) Bounds {
	return Bounds{
		SouthWest: Coordinate{Lat: math.Min(a.Lat, c.Lat), Lng: math.Min(a.Lng, c.Lng)},
		NorthEast: Coordinate{Lat: math.Max(a.Lat, c.Lat), Lng: math.Max(a.Lng, c.Lng)},
	}
}

// Contains reports whether p lies inside the rectangle, edges inclusive.
func (b Bounds) Contains(p Coordinate) bool {
	return p.Lat >= b.SouthWest.Lat && p.Lat <= b.NorthEast.Lat &&
		p.Lng >= b.SouthWest.Lng && p.Lng <= b.NorthEast.Lng
}

// Degenerate reports whether the two corners coincide.
func (b Bounds) Degenerate() bool {
	return b.SouthWest == b.NorthEast
}

// Center returns the rectangle midpoint.
func (b Bounds) Center() Coordinate {
	return Coordinate{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
	}
}

// Location is a named point: either predefined in config or created per
// session from user-submitted coordinates.
type Location struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Coordinates Coordinate `json:"coordinates" yaml:"coordinates"`
}

// Room is a labeled polygonal region owned by exactly one floor.
type Room struct {
	ID      string  `json:"id" yaml:"id"`
	Name    string  `json:"name" yaml:"name"`
	Polygon Polygon `json:"polygon" yaml:"polygon"`
	Color   string  `json:"color" yaml:"color"`
}

// Corridor is connective walkable space on a floor. It is not selectable;
// it only serves as a waypoint region for indoor path stitching.
type Corridor struct {
	Polygon Polygon `json:"polygon" yaml:"polygon"`
	Color   string  `json:"color" yaml:"color"`
}

// Floor is one level of a building.
type Floor struct {
	Level     string     `json:"level" yaml:"level"`
	Name      string     `json:"name" yaml:"name"`
	ImageURL  string     `json:"image_url,omitempty" yaml:"imageUrl"`
	Rooms     []Room     `json:"rooms" yaml:"rooms"`
	Corridors []Corridor `json:"corridors" yaml:"corridors"`
}

// Building is a named structure with geographic bounds and one or more
// floors with unique levels.
type Building struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Bounds Bounds  `json:"bounds" yaml:"bounds"`
	Floors []Floor `json:"floors" yaml:"floors"`
}

// FindFloor returns the floor with the given level.
func (b *Building) FindFloor(level string) (*Floor, bool) {
	if b == nil {
		return nil, false
	}
	for i := range b.Floors {
		if b.Floors[i].Level == level {
			return &b.Floors[i], true
		}
	}
	return nil, false
}

// FindRoom returns the room with the given id on the given floor.
func (b *Building) FindRoom(level, roomID string) (*Room, bool) {
	f, ok := b.FindFloor(level)
	if !ok {
		return nil, false
	}
	for i := range f.Rooms {
		if f.Rooms[i].ID == roomID {
			return &f.Rooms[i], true
		}
	}
	return nil, false
}

// MapLayer describes one base tile layer offered to the mapping engine.
type MapLayer struct {
	Name        string `json:"name" yaml:"name"`
	URL         string `json:"url" yaml:"url"`
	Attribution string `json:"attribution" yaml:"attribution"`
	MaxZoom     int    `json:"max_zoom" yaml:"maxZoom"`
}

// Config is the process-wide campus configuration, loaded once and never
// mutated afterwards.
type Config struct {
	DefaultCenter       Coordinate `json:"default_center" yaml:"defaultCenter"`
	DefaultZoom         float64    `json:"default_zoom" yaml:"defaultZoom"`
	JumpTarget          Coordinate `json:"jump_target" yaml:"jumpTarget"`
	MapLayers           []MapLayer `json:"map_layers" yaml:"mapLayers"`
	PredefinedLocations []Location `json:"predefined_locations" yaml:"predefinedLocations"`
	Buildings           []Building `json:"buildings" yaml:"buildings"`
}

// PathSpec is one pre-drawn path in the custom-layout view.
type PathSpec struct {
	Points []Coordinate `json:"points" yaml:"points"`
	Color  string       `json:"color" yaml:"color"`
}

// Layout is the custom-layout view configuration: a floor plan rendered
// without any base tiles.
type Layout struct {
	Center    Coordinate  `json:"center" yaml:"center"`
	Zoom      float64     `json:"zoom" yaml:"zoom"`
	Rooms     []Room      `json:"rooms" yaml:"rooms"`
	Corridors []Corridor  `json:"corridors" yaml:"corridors"`
	Paths     []PathSpec  `json:"paths" yaml:"paths"`
	Source    *Coordinate `json:"source,omitempty" yaml:"source"`
	Target    *Coordinate `json:"target,omitempty" yaml:"target"`
}
