package model

// CalculatedPlace is the taxonomy reference triple stamped onto a
// location or organizer by the geo binder.  The id fields reference
// the region tree; the name fields are denormalized snapshots taken
// at bind time so that downstream event queries can filter by plain
// strings without joining the taxonomy.
//
// The name snapshots are intentionally stale: renaming a region,
// division or city later does NOT rewrite previously bound entities.
// Only a coordinate change on the owning entity re-runs the resolver
// and refreshes the triple.
type CalculatedPlace struct {
	CalculatedRegionID     uint64 `json:"calculatedRegionId"`     // *.calculated_region_id
	CalculatedDivisionID   uint64 `json:"calculatedDivisionId"`   // *.calculated_division_id
	CalculatedCityID       uint64 `json:"calculatedCityId"`       // *.calculated_city_id
	CalculatedRegionName   string `json:"calculatedRegionName"`   // *.calculated_region_name
	CalculatedDivisionName string `json:"calculatedDivisionName"` // *.calculated_division_name
	CalculatedCityName     string `json:"calculatedCityName"`     // *.calculated_city_name
}
