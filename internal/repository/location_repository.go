// This file defines repository methods for venue locations.  The
// calculated_* columns are written together with the coordinate that
// produced them and are never touched by anything else.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmfreeston/events-directory-api/internal/model"
)

const locationColumns = `id, name, address_1, address_2, address_3, city, state, zip, country,
	latitude, longitude, image_url, active_flag, last_used,
	calculated_region_id, calculated_division_id, calculated_city_id,
	calculated_region_name, calculated_division_name, calculated_city_name,
	created_at, updated_at`

// LocationRepo encapsulates all database queries related to locations.
type LocationRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewLocationRepo constructs a LocationRepo with the provided DB handle.
func NewLocationRepo(db *sql.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

func scanLocation(s rowScanner) (*model.Location, error) {
	var (
		l        model.Location
		lastUsed sql.NullTime
	)
	if err := s.Scan(
		&l.ID, &l.Name, &l.Address1, &l.Address2, &l.Address3, &l.City, &l.State, &l.Zip, &l.Country,
		&l.Latitude, &l.Longitude, &l.ImageURL, &l.ActiveFlag, &lastUsed,
		&l.CalculatedRegionID, &l.CalculatedDivisionID, &l.CalculatedCityID,
		&l.CalculatedRegionName, &l.CalculatedDivisionName, &l.CalculatedCityName,
		&l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if lastUsed.Valid {
		t := lastUsed.Time
		l.LastUsed = &t
	}
	return &l, nil
}

// Create inserts a new location with its already-bound calculated
// triple.  On success the ID is populated.
func (r *LocationRepo) Create(ctx context.Context, l *model.Location) error {
	const q = `INSERT INTO locations
		(name, address_1, address_2, address_3, city, state, zip, country,
		 latitude, longitude, image_url, active_flag, last_used,
		 calculated_region_id, calculated_division_id, calculated_city_id,
		 calculated_region_name, calculated_division_name, calculated_city_name)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		l.Name, l.Address1, l.Address2, l.Address3, l.City, l.State, l.Zip, l.Country,
		l.Latitude, l.Longitude, l.ImageURL, l.ActiveFlag, l.LastUsed,
		l.CalculatedRegionID, l.CalculatedDivisionID, l.CalculatedCityID,
		l.CalculatedRegionName, l.CalculatedDivisionName, l.CalculatedCityName)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// GetByID fetches one location.  Returns ErrLocationNotFound if no
// row matches.
func (r *LocationRepo) GetByID(ctx context.Context, id uint64) (*model.Location, error) {
	q := `SELECT ` + locationColumns + ` FROM locations WHERE id = ?`
	l, err := scanLocation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return l, nil
}

// GetByName fetches a location by exact name, for upsert-by-name
// imports.  Returns ErrLocationNotFound if no row matches.
func (r *LocationRepo) GetByName(ctx context.Context, name string) (*model.Location, error) {
	q := `SELECT ` + locationColumns + ` FROM locations WHERE name = ? LIMIT 1`
	l, err := scanLocation(r.db.QueryRowContext(ctx, q, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return l, nil
}

// ListAll returns every location ordered by id.
func (r *LocationRepo) ListAll(ctx context.Context) ([]model.Location, error) {
	q := `SELECT ` + locationColumns + ` FROM locations ORDER BY id`
	return r.list(ctx, q)
}

// ListByCalculatedCity returns locations assigned to a given taxonomy
// city triple member.
func (r *LocationRepo) ListByCalculatedCity(ctx context.Context, cityID uint64) ([]model.Location, error) {
	q := `SELECT ` + locationColumns + ` FROM locations WHERE calculated_city_id = ? ORDER BY id`
	return r.list(ctx, q, cityID)
}

func (r *LocationRepo) list(ctx context.Context, q string, args ...any) ([]model.Location, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites a location including its coordinate and calculated
// triple.  Callers that changed the coordinate must have re-resolved
// and re-bound the triple before calling this; the repository writes
// what it is given.  Returns ErrLocationNotFound when no row matches.
func (r *LocationRepo) Update(ctx context.Context, l *model.Location) error {
	const q = `UPDATE locations SET
		name = ?, address_1 = ?, address_2 = ?, address_3 = ?, city = ?, state = ?, zip = ?, country = ?,
		latitude = ?, longitude = ?, image_url = ?, active_flag = ?, last_used = ?,
		calculated_region_id = ?, calculated_division_id = ?, calculated_city_id = ?,
		calculated_region_name = ?, calculated_division_name = ?, calculated_city_name = ?,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		l.Name, l.Address1, l.Address2, l.Address3, l.City, l.State, l.Zip, l.Country,
		l.Latitude, l.Longitude, l.ImageURL, l.ActiveFlag, l.LastUsed,
		l.CalculatedRegionID, l.CalculatedDivisionID, l.CalculatedCityID,
		l.CalculatedRegionName, l.CalculatedDivisionName, l.CalculatedCityName,
		l.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLocationNotFound
	}
	return nil
}

// TouchLastUsed stamps the last-used timestamp, called when an event
// is created against the venue.
func (r *LocationRepo) TouchLastUsed(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE locations SET last_used = NOW() WHERE id = ?`, id)
	return err
}

// Delete removes a location row.  Returns ErrLocationNotFound when
// the id matches nothing.  The handler checks for referencing events
// first and refuses the delete with a 409.
func (r *LocationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLocationNotFound
	}
	return nil
}
