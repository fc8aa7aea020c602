package importer

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jmfreeston/events-directory-api/internal/model"
	"github.com/jmfreeston/events-directory-api/internal/repository"
	"github.com/jmfreeston/events-directory-api/internal/taxonomy"
)

// Organizer exports keep contact details in these meta keys.
const (
	metaOrganizerPhone   = "_OrganizerPhone"
	metaOrganizerEmail   = "_OrganizerEmail"
	metaOrganizerWebsite = "_OrganizerWebsite"
)

// OrganizerStore is the slice of the organizer repository the import
// job needs for its upsert-by-name.
type OrganizerStore interface {
	GetByName(ctx context.Context, name string) (*model.Organizer, error)
	Create(ctx context.Context, o *model.Organizer) error
	Update(ctx context.Context, o *model.Organizer) error
}

// ImportOrganizersFromWXR reads an organizer WXR export and upserts
// one Organizer per tribe_organizer item, keyed by name. Organizer
// posts carry no coordinate, so every imported organizer is assigned
// the home triple named by homeRegion/homeDivision/homeCity, looked
// up in the current taxonomy.
func ImportOrganizersFromWXR(ctx context.Context, r io.Reader, source string, regions RegionSource, organizers OrganizerStore, homeRegion, homeDivision, homeCity string) (*RunReport, error) {
	report := newReport("import-organizers-wxr", source)
	defer report.finish()

	var doc wxrDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return report, fmt.Errorf("decode wxr: %w", err)
	}

	tree, err := regions.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("load regions: %w", err)
	}
	home, err := assignmentByNames(tree, homeRegion, homeDivision, homeCity)
	if err != nil {
		return report, err
	}

	for _, item := range doc.Items {
		if item.PostType != "" && item.PostType != "tribe_organizer" {
			continue
		}
		report.Scanned++

		name := strings.TrimSpace(item.Title)
		if name == "" {
			report.fail("post %d: organizer has no name", item.PostID)
			continue
		}

		org := &model.Organizer{
			Name:        name,
			ShortName:   name,
			URL:         orDefault(item.meta(metaOrganizerWebsite), item.Link),
			Description: strings.TrimSpace(item.Content),
			Phone:       item.meta(metaOrganizerPhone),
			PublicEmail: item.meta(metaOrganizerEmail),
			ActiveFlag:  true,
			PaymentTier: model.TierBasic,
		}
		taxonomy.Bind(&org.CalculatedPlace, home)

		existing, err := organizers.GetByName(ctx, name)
		switch {
		case err == nil:
			org.ID = existing.ID
			org.LoginUserID = existing.LoginUserID
			if err := organizers.Update(ctx, org); err != nil {
				report.fail("organizer %q: update: %v", name, err)
				continue
			}
			report.Updated++
		case errors.Is(err, repository.ErrOrganizerNotFound):
			if err := organizers.Create(ctx, org); err != nil {
				report.fail("organizer %q: create: %v", name, err)
				continue
			}
			report.Imported++
		default:
			report.fail("organizer %q: lookup: %v", name, err)
		}
	}
	return report, nil
}

// assignmentByNames finds the taxonomy triple matching the given
// names. Region and division must exist; an unknown city falls back
// to the division's first city, matching how legacy loads pinned
// cityless records to the division seat.
func assignmentByNames(regions []model.Region, regionName, divisionName, cityName string) (taxonomy.Assignment, error) {
	for _, r := range regions {
		if r.RegionName != regionName {
			continue
		}
		for _, d := range r.Divisions {
			if d.DivisionName != divisionName {
				continue
			}
			for _, c := range d.MajorCities {
				if c.CityName == cityName {
					return taxonomy.Assignment{
						RegionID: r.ID, DivisionID: d.ID, CityID: c.ID,
						RegionName: r.RegionName, DivisionName: d.DivisionName, CityName: c.CityName,
					}, nil
				}
			}
			if len(d.MajorCities) > 0 {
				c := d.MajorCities[0]
				return taxonomy.Assignment{
					RegionID: r.ID, DivisionID: d.ID, CityID: c.ID,
					RegionName: r.RegionName, DivisionName: d.DivisionName, CityName: c.CityName,
				}, nil
			}
			return taxonomy.Assignment{}, fmt.Errorf("division %q has no cities: %w", divisionName, taxonomy.ErrNoCandidates)
		}
		return taxonomy.Assignment{}, fmt.Errorf("division %q: %w", divisionName, taxonomy.ErrDivisionNotFound)
	}
	return taxonomy.Assignment{}, fmt.Errorf("region %q: %w", regionName, repository.ErrRegionNotFound)
}
