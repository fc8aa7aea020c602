package model

import "time"

// Location represents a physical venue where events take place.
// The address and coordinate are author-supplied; the embedded
// CalculatedPlace triple is derived by the geo resolver whenever the
// coordinate is set or changed and is never recomputed in the
// background.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – venue name, unique enough for upsert-by-name imports.
//  Address1-3 – street address lines (2 and 3 optional).
//  City/State – postal city and state code of the address itself
//               (unrelated to the taxonomy's City nodes).
//  Zip        – postal code.
//  Country    – country, defaults to "USA".
//  Latitude   – decimal degrees; drives geo assignment.
//  Longitude  – decimal degrees; drives geo assignment.
//  ImageURL   – optional venue image.
//  ActiveFlag – whether the venue may be attached to new events.
//  LastUsed   – set when an event most recently referenced the venue.
type Location struct {
	ID         uint64     `json:"id"`                 // locations.id
	Name       string     `json:"name"`               // locations.name
	Address1   string     `json:"address_1"`          // locations.address_1
	Address2   string     `json:"address_2,omitempty"`// locations.address_2 (nullable)
	Address3   string     `json:"address_3,omitempty"`// locations.address_3 (nullable)
	City       string     `json:"city"`               // locations.city
	State      string     `json:"state"`              // locations.state
	Zip        string     `json:"zip"`                // locations.zip
	Country    string     `json:"country"`            // locations.country
	Latitude   float64    `json:"latitude"`           // locations.latitude
	Longitude  float64    `json:"longitude"`          // locations.longitude
	ImageURL   string     `json:"imageUrl,omitempty"` // locations.image_url (nullable)
	ActiveFlag bool       `json:"activeFlag"`         // locations.active_flag
	LastUsed   *time.Time `json:"lastUsed,omitempty"` // locations.last_used (nullable)

	CalculatedPlace // calculated_* columns, stamped by the binder

	CreatedAt time.Time `json:"createdAt"` // locations.created_at
	UpdatedAt time.Time `json:"updatedAt"` // locations.updated_at
}
