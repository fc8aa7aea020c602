package model

import "time"

// Event is a scheduled occurrence in the directory.  The calculated
// region/division/city names are copied from the event's location at
// creation time so the public calendar can filter by region strings
// without a join; they are snapshots, not live references.
//
// Fields:
//  Title/Description        – display text.
//  CategoryFirst            – required primary category.
//  CategorySecond/Third     – optional secondary categories.
//  StartDate/EndDate        – scheduled window.
//  OwnerOrganizerID         – required owning organizer.
//  GrantedOrganizerID       – optional co-organizer granted edit rights.
//  AlternateOrganizerID     – optional alternate contact organizer.
//  OwnerOrganizerName       – denormalized owner name snapshot.
//  LocationID/LocationName  – required venue reference plus name snapshot.
//  Calculated*Name          – taxonomy name snapshots from the location.
//  Active/Featured/Canceled – listing flags.
//  Cost                     – free-form cost text ("$10", "free").
//  ExpiresAt                – logical expiry; rows are not auto-deleted.
type Event struct {
	ID                   uint64     `json:"id"`                             // events.id
	Title                string     `json:"title"`                          // events.title
	Description          string     `json:"description,omitempty"`          // events.description (nullable)
	CategoryFirst        string     `json:"categoryFirst"`                  // events.category_first
	CategorySecond       string     `json:"categorySecond,omitempty"`       // events.category_second (nullable)
	CategoryThird        string     `json:"categoryThird,omitempty"`        // events.category_third (nullable)
	StartDate            time.Time  `json:"startDate"`                      // events.start_date
	EndDate              time.Time  `json:"endDate"`                        // events.end_date
	OwnerOrganizerID     uint64     `json:"ownerOrganizerId"`               // events.owner_organizer_id
	GrantedOrganizerID   uint64     `json:"grantedOrganizerId,omitempty"`   // events.granted_organizer_id (nullable)
	AlternateOrganizerID uint64     `json:"alternateOrganizerId,omitempty"` // events.alternate_organizer_id (nullable)
	OwnerOrganizerName   string     `json:"ownerOrganizerName"`             // events.owner_organizer_name
	LocationID           uint64     `json:"locationId"`                     // events.location_id
	LocationName         string     `json:"locationName"`                   // events.location_name
	CalculatedRegionName string     `json:"calculatedRegionName"`           // events.calculated_region_name
	CalculatedDivisionName string   `json:"calculatedDivisionName"`         // events.calculated_division_name
	CalculatedCityName   string     `json:"calculatedCityName"`             // events.calculated_city_name
	EventImage           string     `json:"eventImage,omitempty"`           // events.event_image (nullable)
	RecurrenceRule       string     `json:"recurrenceRule,omitempty"`       // events.recurrence_rule (nullable)
	Active               bool       `json:"active"`                         // events.active
	Featured             bool       `json:"featured"`                       // events.featured
	Canceled             bool       `json:"canceled"`                       // events.canceled
	Cost                 string     `json:"cost,omitempty"`                 // events.cost (nullable)
	ExpiresAt            time.Time  `json:"expiresAt"`                      // events.expires_at
	CreatedAt            time.Time  `json:"createdAt"`                      // events.created_at
	UpdatedAt            time.Time  `json:"updatedAt"`                      // events.updated_at
}

// Category is a flat lookup row used to validate event categories.
type Category struct {
	ID           uint64 `json:"id"`           // categories.id
	CategoryName string `json:"categoryName"` // categories.category_name
	Active       bool   `json:"active"`       // categories.active
}
