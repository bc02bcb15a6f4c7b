package campus

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and validates the campus config and builds the model.
// Violations describe entities that were dropped; they are reported for
// logging but do not fail the load.
func Load(path string) (*Model, []Violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read campus config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a campus config document and builds the model.
func Parse(raw []byte) (*Model, []Violation, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parse campus config: %w", err)
	}

	violations := sanitize(&cfg)
	return NewModel(&cfg), violations, nil
}

// LoadLayout reads and validates the custom-layout view config.
func LoadLayout(path string) (*Layout, []Violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read layout config: %w", err)
	}
	return ParseLayout(raw)
}

// ParseLayout decodes a layout document, dropping malformed rooms,
// corridors, paths and endpoints under the same rules as the campus config.
func ParseLayout(raw []byte) (*Layout, []Violation, error) {
	var layout Layout
	if err := yaml.Unmarshal(raw, &layout); err != nil {
		return nil, nil, fmt.Errorf("parse layout config: %w", err)
	}

	var violations []Violation

	rooms := layout.Rooms[:0]
	seen := make(map[string]struct{})
	for _, r := range layout.Rooms {
		if r.ID == "" {
			violations = append(violations, violationf("room", "", "missing id"))
			continue
		}
		if _, dup := seen[r.ID]; dup {
			violations = append(violations, violationf("room", r.ID, "duplicate id"))
			continue
		}
		if v, ok := validRing(r.Polygon); !ok {
			violations = append(violations, violationf("room", r.ID, "%s", v))
			continue
		}
		seen[r.ID] = struct{}{}
		rooms = append(rooms, r)
	}
	layout.Rooms = rooms

	corridors := layout.Corridors[:0]
	for i, c := range layout.Corridors {
		if v, ok := validRing(c.Polygon); !ok {
			violations = append(violations, violationf("corridor", fmt.Sprintf("#%d", i), "%s", v))
			continue
		}
		corridors = append(corridors, c)
	}
	layout.Corridors = corridors

	paths := layout.Paths[:0]
	for i, p := range layout.Paths {
		ok := len(p.Points) >= 2
		for _, pt := range p.Points {
			if !pt.Valid() {
				ok = false
				break
			}
		}
		if !ok {
			violations = append(violations, violationf("path", fmt.Sprintf("#%d", i), "needs at least 2 valid points"))
			continue
		}
		paths = append(paths, p)
	}
	layout.Paths = paths

	if layout.Source != nil && !layout.Source.Valid() {
		violations = append(violations, violationf("layout", "source", "coordinates out of range"))
		layout.Source = nil
	}
	if layout.Target != nil && !layout.Target.Valid() {
		violations = append(violations, violationf("layout", "target", "coordinates out of range"))
		layout.Target = nil
	}

	return &layout, violations, nil
}
