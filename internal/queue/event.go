// Package queue defines message payloads exchanged over the message broker.
package queue

// Activity message kinds carried on the directory.activity queue.
const (
	KindEventCreated    = "event.created"
	KindImportCompleted = "import.completed"
)

// ActivityMessage is the envelope published to the directory.activity
// queue.  Exactly one of Event or Import is set, selected by Kind, so
// downstream consumers can log, notify or feed analytics without
// querying the primary database.
type ActivityMessage struct {
	Kind       string                `json:"kind"`
	OccurredAt string                `json:"occurred_at"`
	Event      *EventCreatedInfo     `json:"event,omitempty"`
	Import     *ImportCompletedInfo  `json:"import,omitempty"`
}

// EventCreatedInfo describes a freshly created directory event.
type EventCreatedInfo struct {
	EventID       uint64 `json:"event_id"`
	Title         string `json:"title"`
	OrganizerID   uint64 `json:"organizer_id"`
	OrganizerName string `json:"organizer_name"`
	LocationID    uint64 `json:"location_id"`
	LocationName  string `json:"location_name"`
	RegionName    string `json:"region_name"`
	DivisionName  string `json:"division_name"`
	CityName      string `json:"city_name"`
	StartsAt      string `json:"starts_at"`
	EndsAt        string `json:"ends_at"`
}

// ImportCompletedInfo summarizes a finished one-shot import run.
type ImportCompletedInfo struct {
	Job      string `json:"job"`
	Source   string `json:"source"`
	Scanned  int    `json:"scanned"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
	Duration string `json:"duration"`
}
