package taxonomy

import "github.com/jmfreeston/events-directory-api/internal/model"

// The activation cascade keeps the tree consistent under a simple
// rule: activation flows upward (a visible leaf needs a visible path
// to the root), deactivation flows downward (hiding a branch hides
// everything beneath it).  Neither direction ever auto-activates
// descendants, so a previously hidden city stays hidden when its
// division comes back.
//
// All three functions mutate the loaded region in place.  The caller
// is responsible for writing the whole region back atomically.

// SetRegionActive flips the region's flag.  Deactivating forces every
// owned division and city inactive; activating touches nothing below.
func SetRegionActive(r *model.Region, active bool) {
	r.Active = active
	if active {
		return
	}
	for i := range r.Divisions {
		d := &r.Divisions[i]
		d.Active = false
		for j := range d.MajorCities {
			d.MajorCities[j].Active = false
		}
	}
}

// SetDivisionActive flips one division's flag.  Activating forces the
// owning region active; deactivating forces every owned city inactive
// and leaves the region alone.
func SetDivisionActive(r *model.Region, divisionID uint64, active bool) error {
	d := r.FindDivision(divisionID)
	if d == nil {
		return ErrDivisionNotFound
	}
	d.Active = active
	if active {
		r.Active = true
		return nil
	}
	for j := range d.MajorCities {
		d.MajorCities[j].Active = false
	}
	return nil
}

// EnforceClosure re-establishes the downward rule on a tree supplied
// wholesale rather than through a toggle: an inactive region hides
// every division and city beneath it, and an inactive division hides
// its cities.  Create and full-document update accept nested flags
// straight from the caller, so they run this before persisting.
func EnforceClosure(r *model.Region) {
	for i := range r.Divisions {
		d := &r.Divisions[i]
		if !r.Active {
			d.Active = false
		}
		if d.Active {
			continue
		}
		for j := range d.MajorCities {
			d.MajorCities[j].Active = false
		}
	}
}

// SetCityActive flips one city's flag.  Activating forces both the
// owning division and region active; deactivating a leaf has no
// further effect.
func SetCityActive(r *model.Region, divisionID, cityID uint64, active bool) error {
	d := r.FindDivision(divisionID)
	if d == nil {
		return ErrDivisionNotFound
	}
	c := d.FindCity(cityID)
	if c == nil {
		return ErrCityNotFound
	}
	c.Active = active
	if active {
		d.Active = true
		r.Active = true
	}
	return nil
}
