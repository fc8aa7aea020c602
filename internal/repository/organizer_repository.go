// This file defines repository methods for organizers.  Like
// locations, organizers carry a calculated triple assigned once at
// creation; unlike locations it can also come from an administrator's
// explicit choice instead of a coordinate.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmfreeston/events-directory-api/internal/model"
)

const organizerColumns = `id, name, short_name, login_user_id, url, description, phone, public_email,
	active_flag, payment_tier,
	calculated_region_id, calculated_division_id, calculated_city_id,
	calculated_region_name, calculated_division_name, calculated_city_name,
	last_activity, created_at, updated_at`

// OrganizerRepo encapsulates all database queries related to organizers.
type OrganizerRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewOrganizerRepo constructs an OrganizerRepo with the provided DB handle.
func NewOrganizerRepo(db *sql.DB) *OrganizerRepo {
	return &OrganizerRepo{db: db}
}

func scanOrganizer(s rowScanner) (*model.Organizer, error) {
	var o model.Organizer
	if err := s.Scan(
		&o.ID, &o.Name, &o.ShortName, &o.LoginUserID, &o.URL, &o.Description, &o.Phone, &o.PublicEmail,
		&o.ActiveFlag, &o.PaymentTier,
		&o.CalculatedRegionID, &o.CalculatedDivisionID, &o.CalculatedCityID,
		&o.CalculatedRegionName, &o.CalculatedDivisionName, &o.CalculatedCityName,
		&o.LastActivity, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts a new organizer with its already-bound triple.  On
// success the ID is populated.
func (r *OrganizerRepo) Create(ctx context.Context, o *model.Organizer) error {
	const q = `INSERT INTO organizers
		(name, short_name, login_user_id, url, description, phone, public_email,
		 active_flag, payment_tier,
		 calculated_region_id, calculated_division_id, calculated_city_id,
		 calculated_region_name, calculated_division_name, calculated_city_name,
		 last_activity)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,NOW())`
	res, err := r.db.ExecContext(ctx, q,
		o.Name, o.ShortName, o.LoginUserID, o.URL, o.Description, o.Phone, o.PublicEmail,
		o.ActiveFlag, o.PaymentTier,
		o.CalculatedRegionID, o.CalculatedDivisionID, o.CalculatedCityID,
		o.CalculatedRegionName, o.CalculatedDivisionName, o.CalculatedCityName)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return nil
}

// GetByID fetches one organizer.  Returns ErrOrganizerNotFound if no
// row matches.
func (r *OrganizerRepo) GetByID(ctx context.Context, id uint64) (*model.Organizer, error) {
	q := `SELECT ` + organizerColumns + ` FROM organizers WHERE id = ?`
	o, err := scanOrganizer(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrganizerNotFound
		}
		return nil, err
	}
	return o, nil
}

// GetByLoginUser resolves the organizer managed by a user account.
// Event handlers use it to turn the JWT subject into an organizer id.
func (r *OrganizerRepo) GetByLoginUser(ctx context.Context, userID uint64) (*model.Organizer, error) {
	q := `SELECT ` + organizerColumns + ` FROM organizers WHERE login_user_id = ? LIMIT 1`
	o, err := scanOrganizer(r.db.QueryRowContext(ctx, q, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrganizerNotFound
		}
		return nil, err
	}
	return o, nil
}

// GetByName fetches an organizer by exact name, for upsert-by-name
// imports.  Returns ErrOrganizerNotFound if no row matches.
func (r *OrganizerRepo) GetByName(ctx context.Context, name string) (*model.Organizer, error) {
	q := `SELECT ` + organizerColumns + ` FROM organizers WHERE name = ? LIMIT 1`
	o, err := scanOrganizer(r.db.QueryRowContext(ctx, q, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrganizerNotFound
		}
		return nil, err
	}
	return o, nil
}

// ListAll returns every organizer ordered by id.
func (r *OrganizerRepo) ListAll(ctx context.Context) ([]model.Organizer, error) {
	q := `SELECT ` + organizerColumns + ` FROM organizers ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Organizer{}
	for rows.Next() {
		o, err := scanOrganizer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites an organizer's mutable fields, including the triple
// when an administrator reassigns it.  Returns ErrOrganizerNotFound
// when no row matches.
func (r *OrganizerRepo) Update(ctx context.Context, o *model.Organizer) error {
	const q = `UPDATE organizers SET
		name = ?, short_name = ?, login_user_id = ?, url = ?, description = ?, phone = ?, public_email = ?,
		active_flag = ?, payment_tier = ?,
		calculated_region_id = ?, calculated_division_id = ?, calculated_city_id = ?,
		calculated_region_name = ?, calculated_division_name = ?, calculated_city_name = ?,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		o.Name, o.ShortName, o.LoginUserID, o.URL, o.Description, o.Phone, o.PublicEmail,
		o.ActiveFlag, o.PaymentTier,
		o.CalculatedRegionID, o.CalculatedDivisionID, o.CalculatedCityID,
		o.CalculatedRegionName, o.CalculatedDivisionName, o.CalculatedCityName,
		o.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrganizerNotFound
	}
	return nil
}

// TouchActivity bumps the organizer's last-activity stamp, called
// whenever it creates or edits an event.
func (r *OrganizerRepo) TouchActivity(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE organizers SET last_activity = NOW() WHERE id = ?`, id)
	return err
}

// SetActiveFlag flips the organizer's activation flag.  Returns
// ErrOrganizerNotFound when the id matches nothing.
func (r *OrganizerRepo) SetActiveFlag(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE organizers SET active_flag = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrganizerNotFound
	}
	return nil
}
