package taxonomy

import (
	"testing"

	"github.com/jmfreeston/events-directory-api/internal/model"
)

func TestBindStampsTripleAndNames(t *testing.T) {
	regions := usTaxonomy()
	a, err := Resolve(regions, 42.3601, -71.0589)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	var loc model.Location
	Bind(&loc.CalculatedPlace, a)

	if loc.CalculatedRegionID != 1 || loc.CalculatedDivisionID != 1 || loc.CalculatedCityID != 1 {
		t.Fatalf("unexpected triple: %+v", loc.CalculatedPlace)
	}
	if loc.CalculatedCityName != "Boston" || loc.CalculatedDivisionName != "New England" || loc.CalculatedRegionName != "Northeast" {
		t.Fatalf("unexpected names: %+v", loc.CalculatedPlace)
	}
}

// Renaming a taxonomy node after binding must not change the bound
// snapshot.  The staleness is deliberate; this test pins it down.
func TestBindSnapshotSurvivesRename(t *testing.T) {
	regions := usTaxonomy()
	a, err := Resolve(regions, 42.3601, -71.0589)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	var loc model.Location
	Bind(&loc.CalculatedPlace, a)

	regions[0].Divisions[0].MajorCities[0].CityName = "Boston Metro"
	regions[0].RegionName = "New Northeast"

	if loc.CalculatedCityName != "Boston" {
		t.Fatalf("city snapshot changed after rename: %q", loc.CalculatedCityName)
	}
	if loc.CalculatedRegionName != "Northeast" {
		t.Fatalf("region snapshot changed after rename: %q", loc.CalculatedRegionName)
	}
}

// Binding works the same onto organizers, through the shared
// calculated-place slots.
func TestBindOrganizer(t *testing.T) {
	regions := usTaxonomy()
	a, err := Resolve(regions, 34.0, -118.0)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	var org model.Organizer
	Bind(&org.CalculatedPlace, a)

	if org.CalculatedCityName != "Los Angeles" {
		t.Fatalf("want Los Angeles, got %q", org.CalculatedCityName)
	}
	if org.CalculatedRegionID != 2 || org.CalculatedDivisionID != 1 || org.CalculatedCityID != 1 {
		t.Fatalf("unexpected triple: %+v", org.CalculatedPlace)
	}
}

// Lookup is the explicit-triple path into Bind; it must validate the
// whole chain, not just the city id.
func TestLookupValidatesChain(t *testing.T) {
	regions := usTaxonomy()

	a, err := Lookup(regions, 1, 1, 1)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if a.RegionName != "Northeast" || a.DivisionName != "New England" || a.CityName != "Boston" {
		t.Fatalf("unexpected assignment: %+v", a)
	}

	if _, err := Lookup(regions, 99, 1, 1); err != ErrRegionNotFound {
		t.Fatalf("unknown region: got %v", err)
	}
	if _, err := Lookup(regions, 1, 99, 1); err != ErrDivisionNotFound {
		t.Fatalf("unknown division: got %v", err)
	}
	if _, err := Lookup(regions, 1, 1, 99); err != ErrCityNotFound {
		t.Fatalf("unknown city: got %v", err)
	}
}
