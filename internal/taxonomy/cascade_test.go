package taxonomy

import (
	"errors"
	"testing"

	"github.com/jmfreeston/events-directory-api/internal/model"
)

// northeast builds the fixture used across the cascade tests: one
// region with one division and two cities, everything active.
func northeast() *model.Region {
	return &model.Region{
		ID: 1, RegionName: "Northeast", RegionCode: "NE", Active: true,
		Divisions: []model.Division{
			{
				ID: 1, DivisionName: "New England", States: []string{"MA", "NH"}, Active: true,
				MajorCities: []model.City{
					{ID: 1, CityName: "Boston", Latitude: 42.3601, Longitude: -71.0589, Active: true},
					{ID: 2, CityName: "Portland", Latitude: 43.6591, Longitude: -70.2568, Active: true},
				},
			},
			{
				ID: 2, DivisionName: "Mid-Atlantic", States: []string{"NY", "NJ"}, Active: true,
				MajorCities: []model.City{
					{ID: 1, CityName: "New York City", Latitude: 40.7128, Longitude: -74.0060, Active: true},
				},
			},
		},
	}
}

// assertClosed checks the downward-closure invariant: an inactive
// node has no active descendants.
func assertClosed(t *testing.T, r *model.Region) {
	t.Helper()
	for _, d := range r.Divisions {
		if !r.Active && d.Active {
			t.Fatalf("division %q active under inactive region", d.DivisionName)
		}
		for _, c := range d.MajorCities {
			if !d.Active && c.Active {
				t.Fatalf("city %q active under inactive division %q", c.CityName, d.DivisionName)
			}
		}
	}
}

func TestDeactivateRegionCascadesDown(t *testing.T) {
	r := northeast()

	SetRegionActive(r, false)

	if r.Active {
		t.Fatal("region should be inactive")
	}
	for _, d := range r.Divisions {
		if d.Active {
			t.Fatalf("division %q should be inactive", d.DivisionName)
		}
		for _, c := range d.MajorCities {
			if c.Active {
				t.Fatalf("city %q should be inactive", c.CityName)
			}
		}
	}
	assertClosed(t, r)
}

func TestActivateCityCascadesUp(t *testing.T) {
	r := northeast()
	SetRegionActive(r, false) // everything off

	if err := SetCityActive(r, 1, 1, true); err != nil {
		t.Fatalf("SetCityActive: %v", err)
	}

	if !r.Divisions[0].MajorCities[0].Active {
		t.Fatal("Boston should be active")
	}
	if !r.Divisions[0].Active {
		t.Fatal("New England should have been forced active")
	}
	if !r.Active {
		t.Fatal("Northeast should have been forced active")
	}
	// The upward cascade must not touch siblings.
	if r.Divisions[0].MajorCities[1].Active {
		t.Fatal("Portland should stay inactive")
	}
	if r.Divisions[1].Active {
		t.Fatal("Mid-Atlantic should stay inactive")
	}
}

func TestDeactivateDivisionCascadesToCitiesOnly(t *testing.T) {
	r := northeast()

	if err := SetDivisionActive(r, 1, false); err != nil {
		t.Fatalf("SetDivisionActive: %v", err)
	}

	if r.Divisions[0].Active {
		t.Fatal("division should be inactive")
	}
	for _, c := range r.Divisions[0].MajorCities {
		if c.Active {
			t.Fatalf("city %q should be inactive", c.CityName)
		}
	}
	if !r.Active {
		t.Fatal("region must not be affected by a division deactivation")
	}
	if !r.Divisions[1].Active {
		t.Fatal("sibling division must not be affected")
	}
	assertClosed(t, r)
}

func TestActivateDivisionForcesRegionButNotCities(t *testing.T) {
	r := northeast()
	SetRegionActive(r, false)

	if err := SetDivisionActive(r, 2, true); err != nil {
		t.Fatalf("SetDivisionActive: %v", err)
	}

	if !r.Active {
		t.Fatal("region should have been forced active")
	}
	if !r.Divisions[1].Active {
		t.Fatal("division should be active")
	}
	// No spontaneous downward activation.
	if r.Divisions[1].MajorCities[0].Active {
		t.Fatal("cities must stay inactive until activated individually")
	}
	if r.Divisions[0].Active {
		t.Fatal("sibling division must stay inactive")
	}
}

func TestActivateRegionTouchesNothingBelow(t *testing.T) {
	r := northeast()
	SetRegionActive(r, false)

	SetRegionActive(r, true)

	if !r.Active {
		t.Fatal("region should be active")
	}
	for _, d := range r.Divisions {
		if d.Active {
			t.Fatalf("division %q must stay inactive", d.DivisionName)
		}
		for _, c := range d.MajorCities {
			if c.Active {
				t.Fatalf("city %q must stay inactive", c.CityName)
			}
		}
	}
}

func TestDeactivateCityIsLocal(t *testing.T) {
	r := northeast()

	if err := SetCityActive(r, 1, 1, false); err != nil {
		t.Fatalf("SetCityActive: %v", err)
	}

	if r.Divisions[0].MajorCities[0].Active {
		t.Fatal("Boston should be inactive")
	}
	if !r.Divisions[0].Active || !r.Active {
		t.Fatal("ancestors must not be affected by a city deactivation")
	}
	if !r.Divisions[0].MajorCities[1].Active {
		t.Fatal("sibling city must not be affected")
	}
}

func TestCascadeUnknownIDs(t *testing.T) {
	r := northeast()

	if err := SetDivisionActive(r, 99, true); !errors.Is(err, ErrDivisionNotFound) {
		t.Fatalf("want ErrDivisionNotFound, got %v", err)
	}
	if err := SetCityActive(r, 1, 99, true); !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("want ErrCityNotFound, got %v", err)
	}
	if err := SetCityActive(r, 99, 1, true); !errors.Is(err, ErrDivisionNotFound) {
		t.Fatalf("want ErrDivisionNotFound for unknown division, got %v", err)
	}
}

func TestEnforceClosureUnderInactiveRegion(t *testing.T) {
	r := northeast()
	r.Active = false // nested flags left active, as a raw request body could carry

	EnforceClosure(r)

	assertClosed(t, r)
	for _, d := range r.Divisions {
		if d.Active {
			t.Fatalf("division %q should be forced inactive", d.DivisionName)
		}
		for _, c := range d.MajorCities {
			if c.Active {
				t.Fatalf("city %q should be forced inactive", c.CityName)
			}
		}
	}
}

func TestEnforceClosureUnderInactiveDivision(t *testing.T) {
	r := northeast()
	r.Divisions[0].Active = false

	EnforceClosure(r)

	assertClosed(t, r)
	if r.Divisions[0].MajorCities[0].Active || r.Divisions[0].MajorCities[1].Active {
		t.Fatal("cities of the inactive division should be forced inactive")
	}
	if !r.Active || !r.Divisions[1].Active || !r.Divisions[1].MajorCities[0].Active {
		t.Fatal("active branches must not be touched")
	}
}
