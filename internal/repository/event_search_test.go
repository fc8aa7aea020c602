package repository

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validQuery() EventSearchQuery {
	return EventSearchQuery{
		CalculatedRegionName: "Northeast",
		Start:                time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:                  time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Active:               true,
	}
}

func TestEventSearchValidateRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*EventSearchQuery)
		field  string
	}{
		{"missing region", func(q *EventSearchQuery) { q.CalculatedRegionName = "" }, "calculatedRegionName"},
		{"missing start", func(q *EventSearchQuery) { q.Start = time.Time{} }, "start"},
		{"missing end", func(q *EventSearchQuery) { q.End = time.Time{} }, "end"},
		{"end before start", func(q *EventSearchQuery) { q.End = q.Start.AddDate(0, 0, -1) }, "end precedes start"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := validQuery()
			tc.mutate(&q)
			err := q.Validate()
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("want ErrInvalidArgument, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Fatalf("error should name %q, got %q", tc.field, err.Error())
			}
		})
	}

	if err := validQuery().Validate(); err != nil {
		t.Fatalf("valid query rejected: %v", err)
	}
}

func TestBuildEventSearchRequiredOnly(t *testing.T) {
	q := validQuery()
	where, args := buildEventSearch(q)

	want := "calculated_region_name = ? AND start_date >= ? AND start_date <= ? AND active = ?"
	if where != want {
		t.Fatalf("where mismatch:\n got %q\nwant %q", where, want)
	}
	if len(args) != 4 {
		t.Fatalf("want 4 args, got %d: %v", len(args), args)
	}
	if args[0] != "Northeast" || args[3] != true {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildEventSearchOptionalScopes(t *testing.T) {
	q := validQuery()
	q.CalculatedDivisionName = "New England"
	q.CalculatedCityName = "Boston"

	where, args := buildEventSearch(q)

	if !strings.Contains(where, "calculated_division_name = ?") {
		t.Fatalf("division filter missing from %q", where)
	}
	if !strings.Contains(where, "calculated_city_name = ?") {
		t.Fatalf("city filter missing from %q", where)
	}
	if len(args) != 6 {
		t.Fatalf("want 6 args, got %d", len(args))
	}
	if args[4] != "New England" || args[5] != "Boston" {
		t.Fatalf("optional args out of order: %v", args)
	}

	// Division only: city filter must not leak in.
	q.CalculatedCityName = ""
	where, args = buildEventSearch(q)
	if strings.Contains(where, "calculated_city_name") {
		t.Fatalf("city filter present without a city: %q", where)
	}
	if len(args) != 5 {
		t.Fatalf("want 5 args, got %d", len(args))
	}
}
