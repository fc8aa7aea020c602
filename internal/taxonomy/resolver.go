package taxonomy

import (
	"math"

	"github.com/jmfreeston/events-directory-api/internal/model"
)

// Assignment is the result of a geo resolution: the id triple of the
// nearest city plus the display names the binder will snapshot.
type Assignment struct {
	RegionID     uint64
	DivisionID   uint64
	CityID       uint64
	RegionName   string
	DivisionName string
	CityName     string
}

// Resolve finds the city nearest to the given coordinate and returns
// its owning triple.  Distance is plain planar Euclidean distance in
// degrees; at the scale of a few dozen anchor cities per division the
// error against geodesic distance does not change which city wins,
// and it keeps the hot path free of trig.
//
// The traversal visits regions in slice order, divisions and cities
// in document order, and only a strictly smaller distance replaces
// the current best, so ties deterministically go to the first city
// encountered.  Inactive nodes still participate: an assignment is a
// geographic fact, not a visibility decision.
func Resolve(regions []model.Region, lat, lng float64) (Assignment, error) {
	if !finite(lat) || !finite(lng) {
		return Assignment{}, ErrInvalidCoordinates
	}

	var (
		best  Assignment
		bestD = math.Inf(1)
		seen  bool
	)
	for ri := range regions {
		r := &regions[ri]
		for di := range r.Divisions {
			d := &r.Divisions[di]
			for ci := range d.MajorCities {
				c := &d.MajorCities[ci]
				seen = true
				dist := math.Hypot(c.Latitude-lat, c.Longitude-lng)
				if dist < bestD {
					bestD = dist
					best = Assignment{
						RegionID:     r.ID,
						DivisionID:   d.ID,
						CityID:       c.ID,
						RegionName:   r.RegionName,
						DivisionName: d.DivisionName,
						CityName:     c.CityName,
					}
				}
			}
		}
	}
	if !seen {
		return Assignment{}, ErrNoCandidates
	}
	return best, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
