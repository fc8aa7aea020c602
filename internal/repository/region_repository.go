// This file defines the repository for the region taxonomy.  A region
// row carries its whole division/city tree in a JSON document column,
// so every cascade is a read-modify-write of one row.  A version
// column plus a conditional UPDATE gives us atomic replace-on-condition;
// losing the version race is handled with a small bounded retry.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"encoding/json"
	"errors"

	"github.com/jmfreeston/events-directory-api/internal/model"
	"github.com/jmfreeston/events-directory-api/internal/taxonomy"
)

// cascadeRetries bounds the optimistic read-modify-write loop for
// activation toggles.  Contention on one region row is rare (admin
// traffic only), so a small budget is enough before reporting a
// conflict to the caller.
const cascadeRetries = 3

// RegionRepo encapsulates all database access for the region tree.
type RegionRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewRegionRepo constructs a RegionRepo with the provided DB handle.
// Keeping the handle injectable makes the repository easy to wire in
// main and in tests.
func NewRegionRepo(db *sql.DB) *RegionRepo {
	return &RegionRepo{db: db}
}

// ActiveDivisionRow is the flattened projection returned by
// ListActiveDivisions: each active division paired with its parent
// region's name and code for display.
type ActiveDivisionRow struct {
	RegionName   string       `json:"regionName"`
	RegionCode   string       `json:"regionCode"`
	DivisionName string       `json:"divisionName"`
	States       []string     `json:"states"`
	MajorCities  []model.City `json:"majorCities"`
}

// ActiveCityRow is the flattened projection returned by
// ListActiveCities: each active city with its full ancestry.
type ActiveCityRow struct {
	RegionName   string  `json:"regionName"`
	RegionCode   string  `json:"regionCode"`
	DivisionName string  `json:"divisionName"`
	CityName     string  `json:"cityName"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// Create inserts a new region row.  Division and city ids that are
// still zero are assigned sequentially within their parent so the
// tree is addressable immediately, and nested active flags are forced
// consistent with their ancestors before the write.  On success the
// region's ID and Version fields are populated.
func (r *RegionRepo) Create(ctx context.Context, reg *model.Region) error {
	assignTreeIDs(reg)
	taxonomy.EnforceClosure(reg)
	doc, err := json.Marshal(reg.Divisions)
	if err != nil {
		return err
	}
	const q = `INSERT INTO regions (region_name, region_code, active, divisions, version)
	           VALUES (?, ?, ?, ?, 1)`
	res, err := r.db.ExecContext(ctx, q, reg.RegionName, reg.RegionCode, reg.Active, doc)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	reg.ID = uint64(id)
	reg.Version = 1
	return nil
}

// GetByID fetches one region with its full tree.  It returns
// ErrRegionNotFound if no row matches.
func (r *RegionRepo) GetByID(ctx context.Context, id uint64) (*model.Region, error) {
	const q = `SELECT id, region_name, region_code, active, divisions, version
	           FROM regions WHERE id = ?`
	var (
		reg model.Region
		doc []byte
	)
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&reg.ID, &reg.RegionName, &reg.RegionCode, &reg.Active, &doc, &reg.Version,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegionNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(doc, &reg.Divisions); err != nil {
		return nil, err
	}
	return &reg, nil
}

// ListAll returns every region with its full tree, ordered by id.
// Region ids are assigned once and never reused, so this order is the
// fixed traversal order the geo resolver's tie-break relies on.
func (r *RegionRepo) ListAll(ctx context.Context) ([]model.Region, error) {
	const q = `SELECT id, region_name, region_code, active, divisions, version
	           FROM regions ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Region
	for rows.Next() {
		var (
			reg model.Region
			doc []byte
		)
		if err := rows.Scan(&reg.ID, &reg.RegionName, &reg.RegionCode, &reg.Active, &doc, &reg.Version); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(doc, &reg.Divisions); err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActiveRegions returns regions whose own flag is active.  The
// nested flags are trusted as-is: the cascade is the source of truth,
// this is only a filter on the root flag.
func (r *RegionRepo) ListActiveRegions(ctx context.Context) ([]model.Region, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Region, 0, len(all))
	for _, reg := range all {
		if reg.Active {
			out = append(out, reg)
		}
	}
	return out, nil
}

// ListActiveDivisions flattens the tree into (region, division) pairs
// for every division with an active flag.  This is a projection, not
// a re-check of the parent flags — the cascade already guarantees an
// active division has an active region.
func (r *RegionRepo) ListActiveDivisions(ctx context.Context) ([]ActiveDivisionRow, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []ActiveDivisionRow{}
	for _, reg := range all {
		for _, d := range reg.Divisions {
			if !d.Active {
				continue
			}
			out = append(out, ActiveDivisionRow{
				RegionName:   reg.RegionName,
				RegionCode:   reg.RegionCode,
				DivisionName: d.DivisionName,
				States:       d.States,
				MajorCities:  d.MajorCities,
			})
		}
	}
	return out, nil
}

// ListActiveCities flattens the tree into (region, division, city)
// triples for every city with an active flag.
func (r *RegionRepo) ListActiveCities(ctx context.Context) ([]ActiveCityRow, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []ActiveCityRow{}
	for _, reg := range all {
		for _, d := range reg.Divisions {
			for _, c := range d.MajorCities {
				if !c.Active {
					continue
				}
				out = append(out, ActiveCityRow{
					RegionName:   reg.RegionName,
					RegionCode:   reg.RegionCode,
					DivisionName: d.DivisionName,
					CityName:     c.CityName,
					Latitude:     c.Latitude,
					Longitude:    c.Longitude,
				})
			}
		}
	}
	return out, nil
}

// Update writes back a modified region tree conditionally on the
// version the caller loaded, normalizing nested active flags the same
// way Create does.  It returns ErrConcurrentUpdate when the
// row changed underneath the caller, and ErrRegionNotFound when the
// row is gone.  On success the in-memory version is advanced.
func (r *RegionRepo) Update(ctx context.Context, reg *model.Region) error {
	assignTreeIDs(reg)
	taxonomy.EnforceClosure(reg)
	ok, err := r.saveTree(ctx, reg)
	if err != nil {
		return err
	}
	if !ok {
		// Distinguish a lost race from a deleted row for a precise error.
		if _, err := r.GetByID(ctx, reg.ID); errors.Is(err, ErrRegionNotFound) {
			return ErrRegionNotFound
		}
		return ErrConcurrentUpdate
	}
	return nil
}

// SetRegionActive toggles a region's flag and applies the downward
// cascade, retrying the read-modify-write on version races.  The
// updated region is returned for the response body.
func (r *RegionRepo) SetRegionActive(ctx context.Context, id uint64, active bool) (*model.Region, error) {
	return r.applyCascade(ctx, id, func(reg *model.Region) error {
		taxonomy.SetRegionActive(reg, active)
		return nil
	})
}

// SetDivisionActive toggles a division's flag inside its owning
// region, applying the upward or downward cascade as appropriate.
func (r *RegionRepo) SetDivisionActive(ctx context.Context, regionID, divisionID uint64, active bool) (*model.Region, error) {
	return r.applyCascade(ctx, regionID, func(reg *model.Region) error {
		return taxonomy.SetDivisionActive(reg, divisionID, active)
	})
}

// SetCityActive toggles a city's flag inside its owning region,
// forcing both ancestors active when the city comes on.
func (r *RegionRepo) SetCityActive(ctx context.Context, regionID, divisionID, cityID uint64, active bool) (*model.Region, error) {
	return r.applyCascade(ctx, regionID, func(reg *model.Region) error {
		return taxonomy.SetCityActive(reg, divisionID, cityID, active)
	})
}

// applyCascade runs one toggle as an atomic unit: load the row, apply
// the in-memory cascade, write the whole tree back conditionally on
// the loaded version.  A failed condition means another toggle won
// the race; the loop re-reads and re-applies so no partial cascade is
// ever persisted and no update is lost.
func (r *RegionRepo) applyCascade(ctx context.Context, regionID uint64, mutate func(*model.Region) error) (*model.Region, error) {
	for attempt := 0; attempt < cascadeRetries; attempt++ {
		reg, err := r.GetByID(ctx, regionID)
		if err != nil {
			return nil, err
		}
		if err := mutate(reg); err != nil {
			return nil, err
		}
		ok, err := r.saveTree(ctx, reg)
		if err != nil {
			return nil, err
		}
		if ok {
			return reg, nil
		}
	}
	return nil, ErrConcurrentUpdate
}

// saveTree performs the conditional single-row replace.  It reports
// false when the version no longer matches (or the row vanished).
func (r *RegionRepo) saveTree(ctx context.Context, reg *model.Region) (bool, error) {
	doc, err := json.Marshal(reg.Divisions)
	if err != nil {
		return false, err
	}
	const q = `UPDATE regions
	           SET region_name = ?, region_code = ?, active = ?, divisions = ?, version = version + 1
	           WHERE id = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, q, reg.RegionName, reg.RegionCode, reg.Active, doc, reg.ID, reg.Version)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	reg.Version++
	return true, nil
}

// assignTreeIDs gives sequential ids to divisions and cities that do
// not have one yet.  Existing ids are kept so references held by
// locations and organizers stay valid across edits.
func assignTreeIDs(reg *model.Region) {
	var maxDiv uint64
	for i := range reg.Divisions {
		if reg.Divisions[i].ID > maxDiv {
			maxDiv = reg.Divisions[i].ID
		}
	}
	for i := range reg.Divisions {
		d := &reg.Divisions[i]
		if d.ID == 0 {
			maxDiv++
			d.ID = maxDiv
		}
		var maxCity uint64
		for j := range d.MajorCities {
			if d.MajorCities[j].ID > maxCity {
				maxCity = d.MajorCities[j].ID
			}
		}
		for j := range d.MajorCities {
			if d.MajorCities[j].ID == 0 {
				maxCity++
				d.MajorCities[j].ID = maxCity
			}
		}
	}
}
