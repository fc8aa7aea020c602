// This file defines repository methods for events.  Events are flat
// rows; the taxonomy scope they carry is a set of denormalized name
// snapshots copied from their location at creation time.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmfreeston/events-directory-api/internal/model"
)

// eventColumns is the canonical select list shared by every event
// query so scans stay in one place.
const eventColumns = `id, title, description, category_first, category_second, category_third,
	start_date, end_date, owner_organizer_id, granted_organizer_id, alternate_organizer_id,
	owner_organizer_name, location_id, location_name,
	calculated_region_name, calculated_division_name, calculated_city_name,
	event_image, recurrence_rule, active, featured, canceled, cost, expires_at,
	created_at, updated_at`

// EventRepo encapsulates all database queries related to events.
type EventRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewEventRepo constructs an EventRepo with the provided DB handle.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// rowScanner lets scanEvent work for both QueryRow and Query results.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(s rowScanner) (*model.Event, error) {
	var ev model.Event
	if err := s.Scan(
		&ev.ID, &ev.Title, &ev.Description, &ev.CategoryFirst, &ev.CategorySecond, &ev.CategoryThird,
		&ev.StartDate, &ev.EndDate, &ev.OwnerOrganizerID, &ev.GrantedOrganizerID, &ev.AlternateOrganizerID,
		&ev.OwnerOrganizerName, &ev.LocationID, &ev.LocationName,
		&ev.CalculatedRegionName, &ev.CalculatedDivisionName, &ev.CalculatedCityName,
		&ev.EventImage, &ev.RecurrenceRule, &ev.Active, &ev.Featured, &ev.Canceled, &ev.Cost, &ev.ExpiresAt,
		&ev.CreatedAt, &ev.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Create inserts a new event.  On success the ID and timestamp fields
// are populated from the stored row.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	const q = `INSERT INTO events
		(title, description, category_first, category_second, category_third,
		 start_date, end_date, owner_organizer_id, granted_organizer_id, alternate_organizer_id,
		 owner_organizer_name, location_id, location_name,
		 calculated_region_name, calculated_division_name, calculated_city_name,
		 event_image, recurrence_rule, active, featured, canceled, cost, expires_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		ev.Title, ev.Description, ev.CategoryFirst, ev.CategorySecond, ev.CategoryThird,
		ev.StartDate, ev.EndDate, ev.OwnerOrganizerID, ev.GrantedOrganizerID, ev.AlternateOrganizerID,
		ev.OwnerOrganizerName, ev.LocationID, ev.LocationName,
		ev.CalculatedRegionName, ev.CalculatedDivisionName, ev.CalculatedCityName,
		ev.EventImage, ev.RecurrenceRule, ev.Active, ev.Featured, ev.Canceled, ev.Cost, ev.ExpiresAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	stored, err := r.GetByID(ctx, ev.ID)
	if err != nil {
		return err
	}
	ev.CreatedAt, ev.UpdatedAt = stored.CreatedAt, stored.UpdatedAt
	return nil
}

// GetByID fetches one event.  It returns ErrEventNotFound if no row
// matches.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	ev, err := scanEvent(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return ev, nil
}

// ListAll returns every event ordered by start date.  Intended for
// admin tooling; the public calendar goes through
// SearchByCalculatedLocations.
func (r *EventRepo) ListAll(ctx context.Context) ([]model.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events ORDER BY start_date ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByOwner returns an organizer's events, soonest first.
func (r *EventRepo) ListByOwner(ctx context.Context, organizerID uint64) ([]model.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE owner_organizer_id = ? ORDER BY start_date ASC`
	rows, err := r.db.QueryContext(ctx, q, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the mutable fields of an event.  The denormalized
// snapshots travel with it: a caller that changed the location must
// have refreshed them first.  Returns ErrEventNotFound when no row is
// affected.
func (r *EventRepo) Update(ctx context.Context, ev *model.Event) error {
	const q = `UPDATE events SET
		title = ?, description = ?, category_first = ?, category_second = ?, category_third = ?,
		start_date = ?, end_date = ?, granted_organizer_id = ?, alternate_organizer_id = ?,
		location_id = ?, location_name = ?,
		calculated_region_name = ?, calculated_division_name = ?, calculated_city_name = ?,
		event_image = ?, recurrence_rule = ?, active = ?, featured = ?, canceled = ?, cost = ?,
		expires_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		ev.Title, ev.Description, ev.CategoryFirst, ev.CategorySecond, ev.CategoryThird,
		ev.StartDate, ev.EndDate, ev.GrantedOrganizerID, ev.AlternateOrganizerID,
		ev.LocationID, ev.LocationName,
		ev.CalculatedRegionName, ev.CalculatedDivisionName, ev.CalculatedCityName,
		ev.EventImage, ev.RecurrenceRule, ev.Active, ev.Featured, ev.Canceled, ev.Cost,
		ev.ExpiresAt, ev.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// Delete removes an event row.  Returns ErrEventNotFound when the id
// matches nothing.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// CountByLocation reports how many events reference a location; used
// to refuse deleting venues that are still in use.
func (r *EventRepo) CountByLocation(ctx context.Context, locationID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE location_id = ?`, locationID).Scan(&n)
	return n, err
}

// ExistsByTitleAndStart reports whether an event with this title and
// start time is already stored; the calendar import uses it to keep
// re-runs from duplicating occurrences.
func (r *EventRepo) ExistsByTitleAndStart(ctx context.Context, title string, start time.Time) (bool, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE title = ? AND start_date = ?`, title, start).Scan(&n)
	return n > 0, err
}

// DeleteExpiredBefore removes events whose logical expiry passed
// before the cutoff.  The HTTP service never calls this; it exists
// for the one-shot cleanup job.
func (r *EventRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE expires_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
