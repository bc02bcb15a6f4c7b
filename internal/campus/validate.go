package campus

import "fmt"

// Violation reports one config entity that failed validation. The entity is
// dropped from the model; the rest of the config stays usable. Violations
// only ever surface at load time.
type Violation struct {
	Entity string `json:"entity"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	if v.ID == "" {
		return fmt.Sprintf("%s: %s", v.Entity, v.Reason)
	}
	return fmt.Sprintf("%s %q: %s", v.Entity, v.ID, v.Reason)
}

func violationf(entity, id, format string, args ...any) Violation {
	return Violation{Entity: entity, ID: id, Reason: fmt.Sprintf(format, args...)}
}

// sanitize validates every entity in cfg against the model invariants and
// drops offenders, mutating cfg in place. Missing data means "no overlay",
// never a broken map.
func sanitize(cfg *Config) []Violation {
	var violations []Violation

	locs := cfg.PredefinedLocations[:0]
	seenLocs := make(map[string]struct{})
	for _, loc := range cfg.PredefinedLocations {
		if loc.ID == "" {
			violations = append(violations, violationf("location", "", "missing id"))
			continue
		}
		if _, dup := seenLocs[loc.ID]; dup {
			violations = append(violations, violationf("location", loc.ID, "duplicate id"))
			continue
		}
		if !loc.Coordinates.Valid() {
			violations = append(violations, violationf("location", loc.ID, "coordinates out of range"))
			continue
		}
		seenLocs[loc.ID] = struct{}{}
		locs = append(locs, loc)
	}
	cfg.PredefinedLocations = locs

	buildings := cfg.Buildings[:0]
	seenBuildings := make(map[string]struct{})
	for _, b := range cfg.Buildings {
		violations = append(violations, validateBuilding(&b)...)
		if b.ID == "" {
			violations = append(violations, violationf("building", b.Name, "missing id"))
			continue
		}
		if _, dup := seenBuildings[b.ID]; dup {
			violations = append(violations, violationf("building", b.ID, "duplicate id"))
			continue
		}
		if !b.Bounds.SouthWest.Valid() || !b.Bounds.NorthEast.Valid() {
			violations = append(violations, violationf("building", b.ID, "bounds out of range"))
			continue
		}
		if b.Bounds.Degenerate() {
			violations = append(violations, violationf("building", b.ID, "bounds rectangle is degenerate"))
			continue
		}
		if len(b.Floors) == 0 {
			violations = append(violations, violationf("building", b.ID, "no valid floors"))
			continue
		}
		seenBuildings[b.ID] = struct{}{}
		buildings = append(buildings, b)
	}
	cfg.Buildings = buildings

	return violations
}

// validateBuilding cleans the floors of b in place and returns violations
// for every dropped floor, room or corridor.
func validateBuilding(b *Building) []Violation {
	var violations []Violation

	floors := b.Floors[:0]
	seenLevels := make(map[string]struct{})
	for _, f := range b.Floors {
		if f.Level == "" {
			violations = append(violations, violationf("floor", b.ID, "missing level"))
			continue
		}
		if _, dup := seenLevels[f.Level]; dup {
			violations = append(violations, violationf("floor", b.ID+"/"+f.Level, "duplicate level"))
			continue
		}
		seenLevels[f.Level] = struct{}{}

		rooms := f.Rooms[:0]
		seenRooms := make(map[string]struct{})
		for _, r := range f.Rooms {
			if r.ID == "" {
				violations = append(violations, violationf("room", b.ID+"/"+f.Level, "missing id"))
				continue
			}
			if _, dup := seenRooms[r.ID]; dup {
				violations = append(violations, violationf("room", r.ID, "duplicate id on floor "+f.Level))
				continue
			}
			if v, ok := validRing(r.Polygon); !ok {
				violations = append(violations, violationf("room", r.ID, "%s", v))
				continue
			}
			seenRooms[r.ID] = struct{}{}
			rooms = append(rooms, r)
		}
		f.Rooms = rooms

		corridors := f.Corridors[:0]
		for i, c := range f.Corridors {
			if v, ok := validRing(c.Polygon); !ok {
				violations = append(violations, violationf("corridor", fmt.Sprintf("%s/%s#%d", b.ID, f.Level, i), "%s", v))
				continue
			}
			corridors = append(corridors, c)
		}
		f.Corridors = corridors

		floors = append(floors, f)
	}
	b.Floors = floors

	return violations
}

func validRing(p Polygon) (string, bool) {
	for _, c := range p {
		if !c.Valid() {
			return "polygon vertex out of range", false
		}
	}
	if p.DistinctPoints() < 3 {
		return "polygon ring has fewer than 3 distinct points", false
	}
	return "", true
}
