package importer

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jmfreeston/events-directory-api/internal/model"
	"github.com/jmfreeston/events-directory-api/internal/repository"
	"github.com/jmfreeston/events-directory-api/internal/taxonomy"
)

// Venue exports carry their address in wp:postmeta pairs under these keys.
const (
	metaVenueAddress = "_VenueAddress"
	metaVenueCity    = "_VenueCity"
	metaVenueState   = "_VenueState"
	metaVenueZip     = "_VenueZip"
	metaVenueCountry = "_VenueCountry"
	metaVenueLat     = "_VenueLat"
	metaVenueLng     = "_VenueLng"
	metaThumbnailID  = "_thumbnail_id"
)

// Exports that predate the venue geocoder leave the address fields
// blank; the legacy platform filled them with these fixed values.
const (
	defaultVenueCity    = "Boston"
	defaultVenueState   = "MA"
	defaultVenueZip     = "02139"
	defaultVenueCountry = "USA"
	defaultVenueAddress = "Unknown Address"
)

// wxrDocument mirrors the subset of a WordPress WXR export that venue
// items live in: rss > channel > item, with wp:postmeta key/value
// pairs per item. Go's XML decoder matches the local element names,
// so the wp: and content: prefixes need no namespace plumbing.
type wxrDocument struct {
	XMLName xml.Name  `xml:"rss"`
	Items   []wxrItem `xml:"channel>item"`
}

type wxrItem struct {
	Title      string        `xml:"title"`
	Link       string        `xml:"link"`
	Creator    string        `xml:"creator"`
	Content    string        `xml:"encoded"`
	PostID     int64         `xml:"post_id"`
	PostType   string        `xml:"post_type"`
	Status     string        `xml:"status"`
	Categories []wxrCategory `xml:"category"`
	Meta       []wxrMeta     `xml:"postmeta"`
}

type wxrCategory struct {
	Domain string `xml:"domain,attr"`
	Name   string `xml:",chardata"`
}

type wxrMeta struct {
	Key   string `xml:"meta_key"`
	Value string `xml:"meta_value"`
}

// meta returns the first postmeta value for key, or "" when absent.
func (it wxrItem) meta(key string) string {
	for _, m := range it.Meta {
		if m.Key == key {
			return strings.TrimSpace(m.Value)
		}
	}
	return ""
}

// LocationStore is the slice of the location repository the WXR job
// needs: look up by name for the upsert, then insert or replace.
type LocationStore interface {
	GetByName(ctx context.Context, name string) (*model.Location, error)
	Create(ctx context.Context, l *model.Location) error
	Update(ctx context.Context, l *model.Location) error
}

// RegionSource supplies the taxonomy snapshot the resolver runs over.
type RegionSource interface {
	ListAll(ctx context.Context) ([]model.Region, error)
}

// ImportLocationsFromWXR reads a WordPress WXR export and upserts one
// Location per venue item, keyed by venue name. Coordinates from the
// export drive a fresh geo assignment, so every imported location
// lands with a consistent region/division/city triple even when the
// legacy data never had one.
func ImportLocationsFromWXR(ctx context.Context, r io.Reader, source string, regions RegionSource, locations LocationStore) (*RunReport, error) {
	report := newReport("import-locations-wxr", source)
	defer report.finish()

	var doc wxrDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return report, fmt.Errorf("decode wxr: %w", err)
	}

	tree, err := regions.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("load regions: %w", err)
	}

	for _, item := range doc.Items {
		// Venue exports may carry pages and attachments alongside the
		// tribe_venue posts; only the venues become locations.
		if item.PostType != "" && item.PostType != "tribe_venue" {
			continue
		}
		report.Scanned++

		name := strings.TrimSpace(item.Title)
		if name == "" {
			report.fail("post %d: venue has no title", item.PostID)
			continue
		}

		lat, latErr := strconv.ParseFloat(item.meta(metaVenueLat), 64)
		lng, lngErr := strconv.ParseFloat(item.meta(metaVenueLng), 64)
		if latErr != nil || lngErr != nil {
			report.fail("venue %q: missing or bad coordinates", name)
			continue
		}

		assignment, err := taxonomy.Resolve(tree, lat, lng)
		if err != nil {
			report.fail("venue %q: %v", name, err)
			continue
		}

		loc := venueToLocation(item, name, lat, lng)
		taxonomy.Bind(&loc.CalculatedPlace, assignment)

		existing, err := locations.GetByName(ctx, name)
		switch {
		case err == nil:
			loc.ID = existing.ID
			if err := locations.Update(ctx, loc); err != nil {
				report.fail("venue %q: update: %v", name, err)
				continue
			}
			report.Updated++
		case errors.Is(err, repository.ErrLocationNotFound):
			if err := locations.Create(ctx, loc); err != nil {
				report.fail("venue %q: create: %v", name, err)
				continue
			}
			report.Imported++
		default:
			report.fail("venue %q: lookup: %v", name, err)
		}
	}
	return report, nil
}

// venueToLocation maps one WXR venue item onto a Location, applying
// the legacy defaults for any blank address field.
func venueToLocation(item wxrItem, name string, lat, lng float64) *model.Location {
	loc := &model.Location{
		Name:       name,
		Address1:   orDefault(item.meta(metaVenueAddress), defaultVenueAddress),
		City:       orDefault(item.meta(metaVenueCity), defaultVenueCity),
		State:      orDefault(item.meta(metaVenueState), defaultVenueState),
		Zip:        orDefault(item.meta(metaVenueZip), defaultVenueZip),
		Country:    orDefault(item.meta(metaVenueCountry), defaultVenueCountry),
		Latitude:   lat,
		Longitude:  lng,
		ActiveFlag: true,
	}
	if thumb := item.meta(metaThumbnailID); thumb != "" {
		loc.ImageURL = "/media/" + thumb
	}
	return loc
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
