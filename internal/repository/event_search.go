package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmfreeston/events-directory-api/internal/model"
)

// EventSearchQuery is the typed filter for the calendar's scoped
// event listing.  Region name, the start-date window and the active
// flag are required; division and city names narrow the scope when
// present.  All name filters match the denormalized snapshots stamped
// at event creation, so no taxonomy join is needed.
type EventSearchQuery struct {
	CalculatedRegionName   string
	CalculatedDivisionName string
	CalculatedCityName     string
	Start                  time.Time
	End                    time.Time
	Active                 bool
}

// Validate checks the required fields and names the first missing one
// in the returned error, wrapped around ErrInvalidArgument so the
// HTTP layer can map it to a 400.
func (q EventSearchQuery) Validate() error {
	switch {
	case q.CalculatedRegionName == "":
		return fmt.Errorf("%w: calculatedRegionName is required", ErrInvalidArgument)
	case q.Start.IsZero():
		return fmt.Errorf("%w: start is required", ErrInvalidArgument)
	case q.End.IsZero():
		return fmt.Errorf("%w: end is required", ErrInvalidArgument)
	case q.End.Before(q.Start):
		return fmt.Errorf("%w: end precedes start", ErrInvalidArgument)
	}
	return nil
}

// buildEventSearch composes the WHERE clause and its arguments for a
// validated query.  Kept as a pure function so the composition is
// unit-testable without a database.
func buildEventSearch(q EventSearchQuery) (string, []any) {
	where := "calculated_region_name = ? AND start_date >= ? AND start_date <= ? AND active = ?"
	args := []any{q.CalculatedRegionName, q.Start, q.End, q.Active}

	if q.CalculatedDivisionName != "" {
		where += " AND calculated_division_name = ?"
		args = append(args, q.CalculatedDivisionName)
	}
	if q.CalculatedCityName != "" {
		where += " AND calculated_city_name = ?"
		args = append(args, q.CalculatedCityName)
	}
	return where, args
}

// SearchByCalculatedLocations runs the scoped listing: all provided
// filters ANDed together, ordered ascending by start date.
func (r *EventRepo) SearchByCalculatedLocations(ctx context.Context, q EventSearchQuery) ([]model.Event, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	where, args := buildEventSearch(q)
	query := `SELECT ` + eventColumns + `
	          FROM events WHERE ` + where + `
	          ORDER BY start_date ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
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
