package campus

import (
	"github.com/dhconnelly/rtreego"
)

// indexPadding widens degenerate index rectangles slightly so thin buildings
// still land in the tree. Containment is always re-checked strictly against
// the real bounds, so the padding never leaks into query results.
const indexPadding = 1e-9

// Model is the queryable spatial model. It is immutable after construction
// and safe for concurrent readers.
type Model struct {
	cfg     *Config
	byID    map[string]*Building
	locByID map[string]*Location
	index   *rtreego.Rtree
}

type buildingEntry struct {
	building *Building
	order    int
	rect     *rtreego.Rect
}

func (e *buildingEntry) Bounds() *rtreego.Rect { return e.rect }

// NewModel indexes a sanitized config. Buildings keep their declaration
// order, which is the tie-break for overlapping bounds.
func NewModel(cfg *Config) *Model {
	m := &Model{
		cfg:     cfg,
		byID:    make(map[string]*Building, len(cfg.Buildings)),
		locByID: make(map[string]*Location, len(cfg.PredefinedLocations)),
		index:   rtreego.NewTree(2, 2, 8),
	}

	for i := range cfg.Buildings {
		b := &cfg.Buildings[i]
		m.byID[b.ID] = b

		sw := b.Bounds.SouthWest
		ne := b.Bounds.NorthEast
		rect, err := rtreego.NewRect(
			rtreego.Point{sw.Lat - indexPadding, sw.Lng - indexPadding},
			[]float64{ne.Lat - sw.Lat + 2*indexPadding, ne.Lng - sw.Lng + 2*indexPadding},
		)
		if err != nil {
			// Sanitized bounds are non-degenerate; a rect over them cannot
			// fail, but a building the index cannot hold renders no overlay.
			continue
		}
		m.index.Insert(&buildingEntry{building: b, order: i, rect: rect})
	}

	for i := range cfg.PredefinedLocations {
		loc := &cfg.PredefinedLocations[i]
		m.locByID[loc.ID] = loc
	}

	return m
}

// Config returns the loaded configuration.
func (m *Model) Config() *Config { return m.cfg }

// Buildings returns all valid buildings in declaration order.
func (m *Model) Buildings() []Building {
	if m == nil || m.cfg == nil {
		return nil
	}
	return m.cfg.Buildings
}

// PredefinedLocations returns the named locations from config.
func (m *Model) PredefinedLocations() []Location {
	if m == nil || m.cfg == nil {
		return nil
	}
	return m.cfg.PredefinedLocations
}

// Building returns the building with the given id.
func (m *Model) Building(id string) (*Building, bool) {
	if m == nil {
		return nil, false
	}
	b, ok := m.byID[id]
	return b, ok
}

// Location returns the predefined location with the given id.
func (m *Model) Location(id string) (*Location, bool) {
	if m == nil {
		return nil, false
	}
	loc, ok := m.locByID[id]
	return loc, ok
}

// FindBuildingContaining returns the first building (in declaration order)
// whose bounds rectangle contains point. Behavior for overlapping bounds is
// deliberately limited to first-declared-wins.
func (m *Model) FindBuildingContaining(point Coordinate) (*Building, bool) {
	if m == nil || !point.Valid() {
		return nil, false
	}

	probe := rtreego.Point{point.Lat, point.Lng}.ToRect(indexPadding)
	candidates := m.index.SearchIntersect(probe)

	var best *buildingEntry
	for _, c := range candidates {
		entry, ok := c.(*buildingEntry)
		if !ok {
			continue
		}
		// Strict containment check against the real rectangle; the index
		// rectangles are padded.
		if !entry.building.Bounds.Contains(point) {
			continue
		}
		if best == nil || entry.order < best.order {
			best = entry
		}
	}

	if best == nil {
		return nil, false
	}
	return best.building, true
}

// FindFloor returns the floor of b with the given level.
func (m *Model) FindFloor(b *Building, level string) (*Floor, bool) {
	return b.FindFloor(level)
}
