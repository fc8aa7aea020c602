package model

// Region is the aggregate root of the geographic taxonomy.  A region
// owns an ordered list of divisions and each division owns an ordered
// list of major cities.  The whole tree is persisted as a single row
// in the `regions` table: name/code/active live in columns, the
// divisions array is serialized into a JSON document column, and a
// version column guards concurrent read-modify-write cycles.
//
// Divisions and cities are never addressed or stored on their own;
// every mutation loads the region, rewrites the tree in memory and
// saves the row back conditionally on the version.  That keeps the
// activation cascade atomic per region.
//
// Fields:
//  ID         – primary key identifier of the region.
//  RegionName – display name, e.g. "Northeast".
//  RegionCode – short code, e.g. "NE".
//  Active     – whether the region is visible in the directory.
//  Divisions  – owned divisions in document order.
//  Version    – persistence version for optimistic writes; never serialized.
type Region struct {
	ID         uint64     `json:"id"`         // regions.id
	RegionName string     `json:"regionName"` // regions.region_name
	RegionCode string     `json:"regionCode"` // regions.region_code
	Active     bool       `json:"active"`     // regions.active
	Divisions  []Division `json:"divisions"`  // regions.divisions (JSON column)
	Version    uint64     `json:"-"`          // regions.version
}

// Division is a mid-level grouping owned by exactly one region.  Its
// ID is unique within the owning region only.  States lists the
// state/province codes the division covers.
type Division struct {
	ID           uint64   `json:"id"`           // unique within the region
	DivisionName string   `json:"divisionName"` // display name, e.g. "New England"
	States       []string `json:"states"`       // covered state codes
	Active       bool     `json:"active"`       // visibility flag
	MajorCities  []City   `json:"majorCities"`  // owned cities in document order
}

// City is a leaf node of the taxonomy.  Its coordinate is the anchor
// point used by the geo resolver when assigning locations and
// organizers to the taxonomy.
type City struct {
	ID        uint64  `json:"id"`        // unique within the division
	CityName  string  `json:"cityName"`  // display name, e.g. "Boston"
	Latitude  float64 `json:"latitude"`  // decimal degrees
	Longitude float64 `json:"longitude"` // decimal degrees
	Active    bool    `json:"active"`    // visibility flag
}

// FindDivision returns the owned division with the given id, or nil
// when the region has no such division.
func (r *Region) FindDivision(id uint64) *Division {
	for i := range r.Divisions {
		if r.Divisions[i].ID == id {
			return &r.Divisions[i]
		}
	}
	return nil
}

// FindCity returns the owned city with the given id, or nil when the
// division has no such city.
func (d *Division) FindCity(id uint64) *City {
	for i := range d.MajorCities {
		if d.MajorCities[i].ID == id {
			return &d.MajorCities[i]
		}
	}
	return nil
}
