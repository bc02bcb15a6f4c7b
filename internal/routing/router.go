// Package routing owns the outdoor route overlay. A Router answers
// point-to-point route queries against an external service; the Lifecycle
// keeps at most one request in flight and at most one route overlay alive
// per map context.
package routing

import (
	"context"

	"mapmycampus/core-go/internal/campus"
	"mapmycampus/core-go/internal/nav"
)

// Profile selects the routing profile of the external service.
type Profile string

// ProfileFoot is the pedestrian profile; campus routes always walk.
const ProfileFoot Profile = "foot"

// Router resolves an ordered waypoint list to a route geometry. Route must
// honor ctx cancellation; a cancelled request returns ctx.Err().
type Router interface {
	Route(ctx context.Context, waypoints []campus.Coordinate, profile Profile) (nav.Path, error)
}
