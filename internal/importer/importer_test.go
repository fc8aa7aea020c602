package importer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jmfreeston/events-directory-api/internal/model"
	"github.com/jmfreeston/events-directory-api/internal/repository"
)

// newEnglandTree is a minimal taxonomy snapshot with real Boston and
// Portland coordinates so resolver results are unambiguous.
func newEnglandTree() []model.Region {
	return []model.Region{{
		ID: 1, RegionName: "Northeast", RegionCode: "NE", Active: true,
		Divisions: []model.Division{{
			ID: 1, DivisionName: "New England", States: []string{"MA", "ME"}, Active: true,
			MajorCities: []model.City{
				{ID: 1, CityName: "Boston", Latitude: 42.3601, Longitude: -71.0589, Active: true},
				{ID: 2, CityName: "Portland", Latitude: 43.6591, Longitude: -70.2568, Active: true},
			},
		}},
	}}
}

type fakeRegions struct{ tree []model.Region }

func (f *fakeRegions) ListAll(ctx context.Context) ([]model.Region, error) { return f.tree, nil }

type fakeLocations struct {
	byName map[string]*model.Location
	nextID uint64
}

func newFakeLocations() *fakeLocations {
	return &fakeLocations{byName: map[string]*model.Location{}, nextID: 1}
}

func (f *fakeLocations) GetByName(ctx context.Context, name string) (*model.Location, error) {
	if l, ok := f.byName[name]; ok {
		return l, nil
	}
	return nil, repository.ErrLocationNotFound
}

func (f *fakeLocations) Create(ctx context.Context, l *model.Location) error {
	l.ID = f.nextID
	f.nextID++
	f.byName[l.Name] = l
	return nil
}

func (f *fakeLocations) Update(ctx context.Context, l *model.Location) error {
	f.byName[l.Name] = l
	return nil
}

type fakeOrganizers struct {
	byName map[string]*model.Organizer
	nextID uint64
}

func newFakeOrganizers() *fakeOrganizers {
	return &fakeOrganizers{byName: map[string]*model.Organizer{}, nextID: 1}
}

func (f *fakeOrganizers) GetByName(ctx context.Context, name string) (*model.Organizer, error) {
	if o, ok := f.byName[name]; ok {
		return o, nil
	}
	return nil, repository.ErrOrganizerNotFound
}

func (f *fakeOrganizers) Create(ctx context.Context, o *model.Organizer) error {
	o.ID = f.nextID
	f.nextID++
	f.byName[o.Name] = o
	return nil
}

func (f *fakeOrganizers) Update(ctx context.Context, o *model.Organizer) error {
	f.byName[o.Name] = o
	return nil
}

type fakeEvents struct {
	created []*model.Event
}

func (f *fakeEvents) Create(ctx context.Context, ev *model.Event) error {
	f.created = append(f.created, ev)
	return nil
}

func (f *fakeEvents) ExistsByTitleAndStart(ctx context.Context, title string, start time.Time) (bool, error) {
	for _, ev := range f.created {
		if ev.Title == title && ev.StartDate.Equal(start) {
			return true, nil
		}
	}
	return false, nil
}

const wxrHeader = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"
	xmlns:content="http://purl.org/rss/1.0/modules/content/"
	xmlns:dc="http://purl.org/dc/elements/1.1/"
	xmlns:wp="http://wordpress.org/export/1.2/">
<channel>`

const wxrFooter = `</channel></rss>`

const venueWXR = wxrHeader + `
<item>
	<title>Dance Hall</title>
	<wp:post_id>101</wp:post_id>
	<wp:post_type>tribe_venue</wp:post_type>
	<wp:postmeta><wp:meta_key>_VenueAddress</wp:meta_key><wp:meta_value>12 Main St</wp:meta_value></wp:postmeta>
	<wp:postmeta><wp:meta_key>_VenueLat</wp:meta_key><wp:meta_value>42.3600</wp:meta_value></wp:postmeta>
	<wp:postmeta><wp:meta_key>_VenueLng</wp:meta_key><wp:meta_value>-71.0590</wp:meta_value></wp:postmeta>
</item>
<item>
	<title>No Coords Hall</title>
	<wp:post_id>102</wp:post_id>
	<wp:post_type>tribe_venue</wp:post_type>
	<wp:postmeta><wp:meta_key>_VenueCity</wp:meta_key><wp:meta_value>Cambridge</wp:meta_value></wp:postmeta>
</item>
<item>
	<title>some-image.jpg</title>
	<wp:post_id>103</wp:post_id>
	<wp:post_type>attachment</wp:post_type>
</item>
` + wxrFooter

func TestImportLocationsFromWXR(t *testing.T) {
	locs := newFakeLocations()
	report, err := ImportLocationsFromWXR(context.Background(), strings.NewReader(venueWXR),
		"venues.xml", &fakeRegions{tree: newEnglandTree()}, locs)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Scanned != 2 || report.Imported != 1 || report.Failed != 1 {
		t.Fatalf("report = %s", report.Summary())
	}

	loc, ok := locs.byName["Dance Hall"]
	if !ok {
		t.Fatal("Dance Hall not imported")
	}
	if loc.Address1 != "12 Main St" {
		t.Errorf("Address1 = %q", loc.Address1)
	}
	// Blank address fields pick up the legacy defaults.
	if loc.City != "Boston" || loc.State != "MA" || loc.Zip != "02139" || loc.Country != "USA" {
		t.Errorf("defaults not applied: %q %q %q %q", loc.City, loc.State, loc.Zip, loc.Country)
	}
	if loc.CalculatedCityName != "Boston" || loc.CalculatedDivisionName != "New England" || loc.CalculatedRegionName != "Northeast" {
		t.Errorf("assignment = %q/%q/%q", loc.CalculatedRegionName, loc.CalculatedDivisionName, loc.CalculatedCityName)
	}
	if !loc.ActiveFlag {
		t.Error("imported location should be active")
	}
}

func TestImportLocationsUpsertsByName(t *testing.T) {
	locs := newFakeLocations()
	locs.byName["Dance Hall"] = &model.Location{ID: 7, Name: "Dance Hall", Address1: "Old Address"}
	locs.nextID = 8

	report, err := ImportLocationsFromWXR(context.Background(), strings.NewReader(venueWXR),
		"venues.xml", &fakeRegions{tree: newEnglandTree()}, locs)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Updated != 1 || report.Imported != 0 {
		t.Fatalf("report = %s", report.Summary())
	}
	if got := locs.byName["Dance Hall"]; got.ID != 7 || got.Address1 != "12 Main St" {
		t.Errorf("existing row not replaced in place: id=%d addr=%q", got.ID, got.Address1)
	}
}

const eventWXR = wxrHeader + `
<item>
	<title>Friday Night Milonga</title>
	<dc:creator>Jane Organizer</dc:creator>
	<content:encoded>Dancing until late.</content:encoded>
	<wp:post_id>201</wp:post_id>
	<wp:post_type>tribe_events</wp:post_type>
	<category domain="tribe_events_cat">Milonga</category>
	<wp:postmeta><wp:meta_key>_EventStartDate</wp:meta_key><wp:meta_value>2024-10-04 20:00:00</wp:meta_value></wp:postmeta>
	<wp:postmeta><wp:meta_key>_EventEndDate</wp:meta_key><wp:meta_value>2024-10-05 01:00:00</wp:meta_value></wp:postmeta>
	<wp:postmeta><wp:meta_key>_EventVenueID</wp:meta_key><wp:meta_value>Dance Hall</wp:meta_value></wp:postmeta>
	<wp:postmeta><wp:meta_key>_EventCost</wp:meta_key><wp:meta_value>$15</wp:meta_value></wp:postmeta>
</item>
<item>
	<title>Undated Event</title>
	<wp:post_id>202</wp:post_id>
	<wp:post_type>tribe_events</wp:post_type>
</item>
` + wxrFooter

func TestImportEventsFromWXR(t *testing.T) {
	locs := newFakeLocations()
	locs.byName["Dance Hall"] = &model.Location{
		ID: 3, Name: "Dance Hall",
		CalculatedPlace: model.CalculatedPlace{
			CalculatedRegionName:   "Northeast",
			CalculatedDivisionName: "New England",
			CalculatedCityName:     "Boston",
		},
	}
	orgs := newFakeOrganizers()
	orgs.byName["Jane Organizer"] = &model.Organizer{ID: 5, Name: "Jane Organizer"}
	events := &fakeEvents{}

	report, err := ImportEventsFromWXR(context.Background(), strings.NewReader(eventWXR),
		"events.xml", events, locs, orgs)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Scanned != 2 || report.Imported != 1 || report.Failed != 1 {
		t.Fatalf("report = %s", report.Summary())
	}

	ev := events.created[0]
	if ev.Title != "Friday Night Milonga" || ev.CategoryFirst != "Milonga" {
		t.Errorf("title/category = %q/%q", ev.Title, ev.CategoryFirst)
	}
	if ev.LocationID != 3 || ev.LocationName != "Dance Hall" {
		t.Errorf("location link = %d/%q", ev.LocationID, ev.LocationName)
	}
	if ev.CalculatedCityName != "Boston" || ev.CalculatedRegionName != "Northeast" {
		t.Errorf("calculated names = %q/%q", ev.CalculatedRegionName, ev.CalculatedCityName)
	}
	if ev.OwnerOrganizerID != 5 || ev.OwnerOrganizerName != "Jane Organizer" {
		t.Errorf("owner = %d/%q", ev.OwnerOrganizerID, ev.OwnerOrganizerName)
	}
	want := time.Date(2024, 10, 4, 20, 0, 0, 0, time.UTC)
	if !ev.StartDate.Equal(want) {
		t.Errorf("start = %v, want %v", ev.StartDate, want)
	}
	if !ev.ExpiresAt.Equal(ev.EndDate) {
		t.Error("expiry should equal end date")
	}
	if ev.Cost != "$15" {
		t.Errorf("cost = %q", ev.Cost)
	}
}

func TestImportEventsSkipsDuplicates(t *testing.T) {
	locs := newFakeLocations()
	orgs := newFakeOrganizers()
	events := &fakeEvents{created: []*model.Event{{
		Title:     "Friday Night Milonga",
		StartDate: time.Date(2024, 10, 4, 20, 0, 0, 0, time.UTC),
	}}}

	report, err := ImportEventsFromWXR(context.Background(), strings.NewReader(eventWXR),
		"events.xml", events, locs, orgs)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Skipped != 1 || report.Imported != 0 {
		t.Fatalf("report = %s", report.Summary())
	}
}

const organizerWXR = wxrHeader + `
<item>
	<title>Jane Organizer</title>
	<link>https://example.org/jane</link>
	<content:encoded>Weekly milongas since 2003.</content:encoded>
	<wp:post_id>301</wp:post_id>
	<wp:post_type>tribe_organizer</wp:post_type>
	<wp:postmeta><wp:meta_key>_OrganizerPhone</wp:meta_key><wp:meta_value>617-555-0100</wp:meta_value></wp:postmeta>
	<wp:postmeta><wp:meta_key>_OrganizerEmail</wp:meta_key><wp:meta_value>jane@example.org</wp:meta_value></wp:postmeta>
</item>
` + wxrFooter

func TestImportOrganizersFromWXR(t *testing.T) {
	orgs := newFakeOrganizers()
	report, err := ImportOrganizersFromWXR(context.Background(), strings.NewReader(organizerWXR),
		"organizers.xml", &fakeRegions{tree: newEnglandTree()}, orgs,
		"Northeast", "New England", "Boston")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Imported != 1 {
		t.Fatalf("report = %s", report.Summary())
	}

	org := orgs.byName["Jane Organizer"]
	if org == nil {
		t.Fatal("organizer not imported")
	}
	if org.Phone != "617-555-0100" || org.PublicEmail != "jane@example.org" {
		t.Errorf("contact = %q/%q", org.Phone, org.PublicEmail)
	}
	// No website meta, so the post link becomes the URL.
	if org.URL != "https://example.org/jane" {
		t.Errorf("url = %q", org.URL)
	}
	if org.CalculatedCityName != "Boston" || org.CalculatedDivisionName != "New England" {
		t.Errorf("home triple = %q/%q/%q", org.CalculatedRegionName, org.CalculatedDivisionName, org.CalculatedCityName)
	}
	if org.PaymentTier != model.TierBasic || !org.ActiveFlag {
		t.Errorf("tier/active = %q/%v", org.PaymentTier, org.ActiveFlag)
	}
}

func TestImportOrganizersUnknownRegion(t *testing.T) {
	orgs := newFakeOrganizers()
	_, err := ImportOrganizersFromWXR(context.Background(), strings.NewReader(organizerWXR),
		"organizers.xml", &fakeRegions{tree: newEnglandTree()}, orgs,
		"Pacific", "New England", "Boston")
	if err == nil {
		t.Fatal("expected error for unknown home region")
	}
}
