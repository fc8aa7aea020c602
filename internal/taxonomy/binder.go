package taxonomy

import "github.com/jmfreeston/events-directory-api/internal/model"

// Bind stamps a resolved assignment onto an entity's calculated-field
// slots: the id triple plus the denormalized name snapshots.  The
// names are value copies taken now; later renames in the taxonomy do
// not propagate.  Bind only mutates the struct — persisting the
// entity afterwards is the caller's job.
func Bind(dst *model.CalculatedPlace, a Assignment) {
	dst.CalculatedRegionID = a.RegionID
	dst.CalculatedDivisionID = a.DivisionID
	dst.CalculatedCityID = a.CityID
	dst.CalculatedRegionName = a.RegionName
	dst.CalculatedDivisionName = a.DivisionName
	dst.CalculatedCityName = a.CityName
}

// Lookup builds an Assignment from an explicit id triple, validating
// that the city actually sits under the division and the division
// under the region.  It is the non-geographic path into Bind, used
// when an operator picks the triple by hand instead of supplying a
// coordinate.
func Lookup(regions []model.Region, regionID, divisionID, cityID uint64) (Assignment, error) {
	for i := range regions {
		r := &regions[i]
		if r.ID != regionID {
			continue
		}
		d := r.FindDivision(divisionID)
		if d == nil {
			return Assignment{}, ErrDivisionNotFound
		}
		c := d.FindCity(cityID)
		if c == nil {
			return Assignment{}, ErrCityNotFound
		}
		return Assignment{
			RegionID:     r.ID,
			DivisionID:   d.ID,
			CityID:       c.ID,
			RegionName:   r.RegionName,
			DivisionName: d.DivisionName,
			CityName:     c.CityName,
		}, nil
	}
	return Assignment{}, ErrRegionNotFound
}
