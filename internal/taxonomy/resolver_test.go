package taxonomy

import (
	"errors"
	"math"
	"testing"

	"github.com/jmfreeston/events-directory-api/internal/model"
)

func usTaxonomy() []model.Region {
	return []model.Region{
		{
			ID: 1, RegionName: "Northeast", RegionCode: "NE", Active: true,
			Divisions: []model.Division{
				{
					ID: 1, DivisionName: "New England", Active: true,
					MajorCities: []model.City{
						{ID: 1, CityName: "Boston", Latitude: 42.3601, Longitude: -71.0589, Active: true},
					},
				},
				{
					ID: 2, DivisionName: "Mid-Atlantic", Active: true,
					MajorCities: []model.City{
						{ID: 1, CityName: "New York City", Latitude: 40.7128, Longitude: -74.0060, Active: true},
					},
				},
			},
		},
		{
			ID: 2, RegionName: "West", RegionCode: "W", Active: true,
			Divisions: []model.Division{
				{
					ID: 1, DivisionName: "Pacific", Active: true,
					MajorCities: []model.City{
						{ID: 1, CityName: "Los Angeles", Latitude: 34.0522, Longitude: -118.2437, Active: true},
						{ID: 2, CityName: "San Francisco", Latitude: 37.7749, Longitude: -122.4194, Active: true},
					},
				},
			},
		},
	}
}

func TestResolveExactMatch(t *testing.T) {
	regions := usTaxonomy()

	a, err := Resolve(regions, 42.3601, -71.0589)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if a.RegionID != 1 || a.DivisionID != 1 || a.CityID != 1 {
		t.Fatalf("want Boston triple (1,1,1), got (%d,%d,%d)", a.RegionID, a.DivisionID, a.CityID)
	}
	if a.CityName != "Boston" || a.DivisionName != "New England" || a.RegionName != "Northeast" {
		t.Fatalf("unexpected names: %+v", a)
	}
}

func TestResolveNearest(t *testing.T) {
	regions := usTaxonomy()

	// Sacramento is closer to San Francisco than to Los Angeles.
	a, err := Resolve(regions, 38.5816, -121.4944)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if a.CityName != "San Francisco" {
		t.Fatalf("want San Francisco, got %s", a.CityName)
	}
}

func TestResolveDeterministic(t *testing.T) {
	regions := usTaxonomy()

	first, err := Resolve(regions, 41.0, -73.0)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Resolve(regions, 41.0, -73.0)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if again != first {
			t.Fatalf("resolution not stable: %+v vs %+v", again, first)
		}
	}
}

// Ties must go to the first city in traversal order.  Two cities at
// the same coordinate in different regions: the lower region id wins.
func TestResolveTieBreakFirstWins(t *testing.T) {
	regions := []model.Region{
		{ID: 1, RegionName: "A", Divisions: []model.Division{
			{ID: 1, DivisionName: "A1", MajorCities: []model.City{
				{ID: 1, CityName: "Twin", Latitude: 10, Longitude: 10},
			}},
		}},
		{ID: 2, RegionName: "B", Divisions: []model.Division{
			{ID: 1, DivisionName: "B1", MajorCities: []model.City{
				{ID: 1, CityName: "Twin", Latitude: 10, Longitude: 10},
			}},
		}},
	}

	a, err := Resolve(regions, 10, 10)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if a.RegionID != 1 {
		t.Fatalf("tie must go to the first region in order, got region %d", a.RegionID)
	}
}

// The returned city must be at least as close as every other city in
// the taxonomy, for a sweep of probe points.
func TestResolveReturnsMinimum(t *testing.T) {
	regions := usTaxonomy()
	probes := [][2]float64{
		{42.0, -71.0}, {40.0, -74.5}, {36.0, -120.0}, {0, 0}, {89.9, 179.9}, {-45.5, 30.25},
	}
	for _, p := range probes {
		a, err := Resolve(regions, p[0], p[1])
		if err != nil {
			t.Fatalf("Resolve(%v): %v", p, err)
		}
		var won model.City
		for _, r := range regions {
			for _, d := range r.Divisions {
				for _, c := range d.MajorCities {
					if r.ID == a.RegionID && d.ID == a.DivisionID && c.ID == a.CityID {
						won = c
					}
				}
			}
		}
		wonD := math.Hypot(won.Latitude-p[0], won.Longitude-p[1])
		for _, r := range regions {
			for _, d := range r.Divisions {
				for _, c := range d.MajorCities {
					if math.Hypot(c.Latitude-p[0], c.Longitude-p[1]) < wonD {
						t.Fatalf("probe %v: %s is closer than returned %s", p, c.CityName, won.CityName)
					}
				}
			}
		}
	}
}

func TestResolveEmptyTaxonomy(t *testing.T) {
	if _, err := Resolve(nil, 1, 1); !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("want ErrNoCandidates, got %v", err)
	}
	// Regions and divisions without cities are still empty for the resolver.
	empty := []model.Region{{ID: 1, Divisions: []model.Division{{ID: 1}}}}
	if _, err := Resolve(empty, 1, 1); !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("want ErrNoCandidates for cityless tree, got %v", err)
	}
}

func TestResolveRejectsBadCoordinates(t *testing.T) {
	regions := usTaxonomy()
	for _, bad := range [][2]float64{
		{math.NaN(), 0}, {0, math.NaN()}, {math.Inf(1), 0}, {0, math.Inf(-1)},
	} {
		if _, err := Resolve(regions, bad[0], bad[1]); !errors.Is(err, ErrInvalidCoordinates) {
			t.Fatalf("want ErrInvalidCoordinates for %v, got %v", bad, err)
		}
	}
}
