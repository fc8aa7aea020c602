package model

import "time"

// Payment tiers an organizer can be on.  Tiers are recorded as plain
// data; billing itself happens outside this service.
const (
	TierFree    = "free"
	TierBasic   = "basic"
	TierPremium = "premium"
)

// Organizer is an entity that owns events.  Its CalculatedPlace
// triple is assigned once at creation time, either from a coordinate
// through the geo resolver or from an explicit triple chosen by an
// administrator, and is not kept in sync with later taxonomy renames.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – full organizer name.
//  ShortName   – compact display name.
//  LoginUserID – id of the user account allowed to manage this
//                organizer's events (0 when unlinked).
//  URL/Phone/PublicEmail/Description – public contact info.
//  ActiveFlag  – whether the organizer may create events.
//  PaymentTier – one of free/basic/premium.
//  LastActivity – bumped whenever the organizer touches its events.
type Organizer struct {
	ID          uint64 `json:"id"`                    // organizers.id
	Name        string `json:"name"`                  // organizers.name
	ShortName   string `json:"shortName"`             // organizers.short_name
	LoginUserID uint64 `json:"loginUserId,omitempty"` // organizers.login_user_id
	URL         string `json:"url,omitempty"`         // organizers.url (nullable)
	Description string `json:"description,omitempty"` // organizers.description (nullable)
	Phone       string `json:"phone,omitempty"`       // organizers.phone (nullable)
	PublicEmail string `json:"publicEmail,omitempty"` // organizers.public_email (nullable)
	ActiveFlag  bool   `json:"activeFlag"`            // organizers.active_flag
	PaymentTier string `json:"paymentTier"`           // organizers.payment_tier

	CalculatedPlace // calculated_* columns, stamped at creation

	LastActivity time.Time `json:"lastActivity"` // organizers.last_activity
	CreatedAt    time.Time `json:"createdAt"`    // organizers.created_at
	UpdatedAt    time.Time `json:"updatedAt"`    // organizers.updated_at
}
