package campus

import "testing"

func twoFloorCampus() *Config {
	return &Config{
		Buildings: []Building{
			{
				ID:     "library",
				Name:   "Library",
				Bounds: NewBounds(Coordinate{Lat: 13.167, Lng: 77.557}, Coordinate{Lat: 13.169, Lng: 77.559}),
				Floors: []Floor{
					{Level: "1", Name: "Ground Floor"},
					{Level: "2", Name: "First Floor"},
				},
			},
			{
				ID:     "annex",
				Name:   "Annex",
				Bounds: NewBounds(Coordinate{Lat: 13.168, Lng: 77.558}, Coordinate{Lat: 13.170, Lng: 77.560}),
				Floors: []Floor{
					{Level: "1", Name: "Ground Floor"},
				},
			},
		},
	}
}

func TestFindBuildingContaining_InsideAndOutside(t *testing.T) {
	m := NewModel(twoFloorCampus())

	b, ok := m.FindBuildingContaining(Coordinate{Lat: 13.1675, Lng: 77.5575})
	if !ok {
		t.Fatalf("expected a building for a point inside library bounds")
	}
	if b.ID != "library" {
		t.Fatalf("expected library, got %s", b.ID)
	}

	if _, ok := m.FindBuildingContaining(Coordinate{Lat: 13.20, Lng: 77.60}); ok {
		t.Fatalf("expected no building for a point outside all bounds")
	}
}

func TestFindBuildingContaining_EdgeIsInside(t *testing.T) {
	m := NewModel(twoFloorCampus())

	b, ok := m.FindBuildingContaining(Coordinate{Lat: 13.167, Lng: 77.557})
	if !ok || b.ID != "library" {
		t.Fatalf("expected the bounds corner to count as inside, got ok=%v", ok)
	}
}

func TestFindBuildingContaining_OverlapTieBreaksOnDeclarationOrder(t *testing.T) {
	m := NewModel(twoFloorCampus())

	// Inside both library and annex; library is declared first.
	overlap := Coordinate{Lat: 13.1685, Lng: 77.5585}
	for i := 0; i < 10; i++ {
		b, ok := m.FindBuildingContaining(overlap)
		if !ok {
			t.Fatalf("expected a building for the overlap point")
		}
		if b.ID != "library" {
			t.Fatalf("call %d: expected first-declared building, got %s", i, b.ID)
		}
	}
}

func TestFindBuildingContaining_InvalidPoint(t *testing.T) {
	m := NewModel(twoFloorCampus())

	if _, ok := m.FindBuildingContaining(Coordinate{Lat: 91, Lng: 0}); ok {
		t.Fatalf("expected no building for an out-of-range point")
	}
}

func TestFindFloor(t *testing.T) {
	m := NewModel(twoFloorCampus())
	b, _ := m.Building("library")

	f, ok := m.FindFloor(b, "2")
	if !ok || f.Name != "First Floor" {
		t.Fatalf("expected First Floor, got ok=%v f=%+v", ok, f)
	}

	if _, ok := m.FindFloor(b, "17"); ok {
		t.Fatalf("expected not-found for an absent level")
	}
	if _, ok := m.FindFloor(nil, "1"); ok {
		t.Fatalf("expected not-found for a nil building")
	}
}

func TestBuildingAndLocationLookups(t *testing.T) {
	cfg := twoFloorCampus()
	cfg.PredefinedLocations = []Location{
		{ID: "gate", Name: "Main Gate", Coordinates: Coordinate{Lat: 13.168, Lng: 77.558}},
	}
	m := NewModel(cfg)

	if _, ok := m.Building("library"); !ok {
		t.Fatalf("expected library to resolve")
	}
	if _, ok := m.Building("nope"); ok {
		t.Fatalf("expected unknown building to miss")
	}
	loc, ok := m.Location("gate")
	if !ok || loc.Name != "Main Gate" {
		t.Fatalf("expected gate location, got ok=%v loc=%+v", ok, loc)
	}
}
