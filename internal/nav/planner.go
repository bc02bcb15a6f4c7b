// Package nav computes indoor navigation paths. An indoor route is stitched
// from room centroids through the floor's corridors; outdoor routes are
// delegated to the external routing service, so this package only emits the
// waypoint pair for them.
package nav

import (
	"mapmycampus/core-go/internal/campus"
)

// Path is an ordered point sequence to render as a route line. It is a
// derived value, recomputed from current state on every relevant change and
// never cached.
type Path []campus.Coordinate

// Centroid returns the arithmetic mean of the ring's vertices. This is
// intentionally not the area-weighted centroid: the nearest-corridor
// tie-breaks downstream depend on this exact formula.
func Centroid(p campus.Polygon) campus.Coordinate {
	if len(p) == 0 {
		return campus.Coordinate{}
	}
	var lat, lng float64
	for _, c := range p {
		lat += c.Lat
		lng += c.Lng
	}
	n := float64(len(p))
	return campus.Coordinate{Lat: lat / n, Lng: lng / n}
}

// distSq is the squared planar Euclidean distance over (lat, lng). Distances
// are only ever compared, so the square root is skipped; the ordering is
// identical.
func distSq(a, b campus.Coordinate) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	return dLat*dLat + dLng*dLng
}

// NearestCorridor returns the centroid of the corridor closest to point.
// When several corridors are equidistant the first one in iteration order
// wins; deterministic but otherwise arbitrary.
func NearestCorridor(point campus.Coordinate, corridors []campus.Corridor) (campus.Coordinate, bool) {
	if len(corridors) == 0 {
		return campus.Coordinate{}, false
	}
	best := Centroid(corridors[0].Polygon)
	bestDist := distSq(point, best)
	for _, c := range corridors[1:] {
		center := Centroid(c.Polygon)
		if d := distSq(point, center); d < bestDist {
			best = center
			bestDist = d
		}
	}
	return best, true
}

// IndoorPath stitches a walkable route between two rooms:
// source centroid, nearest corridor to the source, nearest corridor to the
// target, target centroid. The corridor points collapse when the floor has
// no corridors or both ends share the nearest corridor. Selecting the same
// room for both ends yields no path.
func IndoorPath(source, target *campus.Room, corridors []campus.Corridor) Path {
	if source == nil || target == nil {
		return nil
	}
	if source.ID == target.ID {
		return nil
	}

	src := Centroid(source.Polygon)
	dst := Centroid(target.Polygon)

	path := Path{src}
	if c1, ok := NearestCorridor(src, corridors); ok {
		path = append(path, c1)
		if c2, _ := NearestCorridor(dst, corridors); c2 != c1 {
			path = append(path, c2)
		}
	}
	return append(path, dst)
}

// OutdoorWaypoints emits the waypoint pair for the routing request
// lifecycle. No geometry is computed here; the external routing service
// owns the outdoor path.
func OutdoorWaypoints(source, destination *campus.Location) ([]campus.Coordinate, bool) {
	if source == nil || destination == nil {
		return nil, false
	}
	return []campus.Coordinate{source.Coordinates, destination.Coordinates}, true
}
