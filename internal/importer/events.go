package importer

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jmfreeston/events-directory-api/internal/model"
	"github.com/jmfreeston/events-directory-api/internal/repository"
)

// Calendar event exports keep schedule and linkage in these meta keys.
const (
	metaEventStart     = "_EventStartDate"
	metaEventEnd       = "_EventEndDate"
	metaEventVenue     = "_EventVenueID"
	metaEventOrganizer = "_EventOrganizerID"
	metaEventCost      = "_EventCost"
)

// eventCategoryDomain is the category taxonomy the calendar plugin
// files its events under; other category domains on the same item are
// plain tags and are ignored.
const eventCategoryDomain = "tribe_events_cat"

// wxrDateLayouts covers the timestamp shapes seen in calendar exports.
var wxrDateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// EventStore is the slice of the event repository the import job
// needs. Existence is checked by title and start so a re-run never
// duplicates an occurrence.
type EventStore interface {
	Create(ctx context.Context, ev *model.Event) error
	ExistsByTitleAndStart(ctx context.Context, title string, start time.Time) (bool, error)
}

// OrganizerSource resolves the dc:creator of an item to an organizer.
type OrganizerSource interface {
	GetByName(ctx context.Context, name string) (*model.Organizer, error)
}

// ImportEventsFromWXR reads a calendar WXR export and inserts one
// Event per tribe_events item. The venue meta value is matched
// against existing locations by name; when it matches, the event is
// stamped with the location's calculated region/division/city names
// so it shows up in regional queries exactly like a natively created
// event. Items whose title and start date already exist are skipped.
func ImportEventsFromWXR(ctx context.Context, r io.Reader, source string, events EventStore, locations LocationStore, organizers OrganizerSource) (*RunReport, error) {
	report := newReport("import-events-wxr", source)
	defer report.finish()

	var doc wxrDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return report, fmt.Errorf("decode wxr: %w", err)
	}

	for _, item := range doc.Items {
		if item.PostType != "" && item.PostType != "tribe_events" {
			continue
		}
		report.Scanned++

		title := strings.TrimSpace(item.Title)
		if title == "" {
			report.fail("post %d: event has no title", item.PostID)
			continue
		}

		start, err := parseWXRDate(item.meta(metaEventStart))
		if err != nil {
			report.fail("event %q: start date: %v", title, err)
			continue
		}
		end, err := parseWXRDate(item.meta(metaEventEnd))
		if err != nil {
			report.fail("event %q: end date: %v", title, err)
			continue
		}

		exists, err := events.ExistsByTitleAndStart(ctx, title, start)
		if err != nil {
			report.fail("event %q: existence check: %v", title, err)
			continue
		}
		if exists {
			report.Skipped++
			continue
		}

		first, canceled := mapEventCategories(item.Categories)
		ev := &model.Event{
			Title:         title,
			Description:   strings.TrimSpace(item.Content),
			CategoryFirst: first,
			StartDate:     start,
			EndDate:       end,
			Active:        true,
			Canceled:      canceled,
			Cost:          item.meta(metaEventCost),
			ExpiresAt:     end,
		}

		// The venue meta carries the venue's name in these exports;
		// an unmatched venue still imports, just without a location.
		if venue := item.meta(metaEventVenue); venue != "" {
			loc, err := locations.GetByName(ctx, venue)
			switch {
			case err == nil:
				ev.LocationID = loc.ID
				ev.LocationName = loc.Name
				ev.CalculatedRegionName = loc.CalculatedRegionName
				ev.CalculatedDivisionName = loc.CalculatedDivisionName
				ev.CalculatedCityName = loc.CalculatedCityName
			case !errors.Is(err, repository.ErrLocationNotFound):
				report.fail("event %q: venue lookup: %v", title, err)
				continue
			}
		}

		if creator := strings.TrimSpace(item.Creator); creator != "" {
			org, err := organizers.GetByName(ctx, creator)
			switch {
			case err == nil:
				ev.OwnerOrganizerID = org.ID
				ev.OwnerOrganizerName = org.Name
			case errors.Is(err, repository.ErrOrganizerNotFound):
				ev.OwnerOrganizerName = creator
			default:
				report.fail("event %q: organizer lookup: %v", title, err)
				continue
			}
		}

		if err := events.Create(ctx, ev); err != nil {
			report.fail("event %q: create: %v", title, err)
			continue
		}
		report.Imported++
	}
	return report, nil
}

func parseWXRDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, errors.New("missing")
	}
	for _, layout := range wxrDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", v)
}

// mapEventCategories folds the plugin's free-form category slugs into
// a primary category name plus a canceled marker. The first keyword
// hit wins; everything else falls back to Unknown.
func mapEventCategories(cats []wxrCategory) (first string, canceled bool) {
	for _, c := range cats {
		if c.Domain != eventCategoryDomain {
			continue
		}
		slug := strings.ToLower(c.Name)
		switch {
		case strings.Contains(slug, "class"):
			return "Class", false
		case strings.Contains(slug, "practica"):
			return "Practica", false
		case strings.Contains(slug, "milonga"):
			return "Milonga", false
		case strings.Contains(slug, "festival"):
			return "Festival", false
		case strings.Contains(slug, "workshop"):
			return "Workshop", false
		case strings.Contains(slug, "cancel"):
			return "Unknown", true
		}
	}
	return "Unknown", false
}
