package repository

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/jmfreeston/events-directory-api/internal/model"
)

func newMockRegionRepo(t *testing.T) (*RegionRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRegionRepo(db), mock
}

func regionColumns() []string {
	return []string{"id", "region_name", "region_code", "active", "divisions", "version"}
}

func treeDoc(t *testing.T, divisions []model.Division) []byte {
	t.Helper()
	doc, err := json.Marshal(divisions)
	if err != nil {
		t.Fatalf("marshal divisions: %v", err)
	}
	return doc
}

func newEnglandDivisions() []model.Division {
	return []model.Division{{
		ID: 1, DivisionName: "New England", States: []string{"MA"}, Active: true,
		MajorCities: []model.City{
			{ID: 1, CityName: "Boston", Latitude: 42.3601, Longitude: -71.0589, Active: true},
		},
	}}
}

// closedTree matches a marshaled divisions document in which no
// division or city carries an active flag.
type closedTree struct{}

func (closedTree) Match(v driver.Value) bool {
	raw, ok := v.([]byte)
	if !ok {
		s, sok := v.(string)
		if !sok {
			return false
		}
		raw = []byte(s)
	}
	var divisions []model.Division
	if err := json.Unmarshal(raw, &divisions); err != nil {
		return false
	}
	for _, d := range divisions {
		if d.Active {
			return false
		}
		for _, c := range d.MajorCities {
			if c.Active {
				return false
			}
		}
	}
	return true
}

func TestCreateForcesClosureUnderInactiveRegion(t *testing.T) {
	repo, mock := newMockRegionRepo(t)

	reg := &model.Region{
		RegionName: "Northeast", RegionCode: "NE", Active: false,
		Divisions: []model.Division{{
			DivisionName: "New England", Active: true,
			MajorCities:  []model.City{{CityName: "Boston", Active: true}},
		}},
	}
	mock.ExpectExec("INSERT INTO regions").
		WithArgs("Northeast", "NE", false, closedTree{}).
		WillReturnResult(sqlmock.NewResult(7, 1))

	if err := repo.Create(context.Background(), reg); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if reg.Divisions[0].Active || reg.Divisions[0].MajorCities[0].Active {
		t.Fatal("division and city should be forced inactive under an inactive region")
	}
	if reg.ID != 7 || reg.Version != 1 {
		t.Fatalf("id/version = %d/%d, want 7/1", reg.ID, reg.Version)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateForcesClosureUnderInactiveDivision(t *testing.T) {
	repo, mock := newMockRegionRepo(t)

	reg := &model.Region{
		ID: 4, RegionName: "Northeast", RegionCode: "NE", Active: true, Version: 2,
		Divisions: []model.Division{{
			ID: 1, DivisionName: "New England", Active: false,
			MajorCities: []model.City{{ID: 1, CityName: "Boston", Active: true}},
		}},
	}
	mock.ExpectExec("UPDATE regions").
		WithArgs("Northeast", "NE", true, closedTree{}, uint64(4), uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Update(context.Background(), reg); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if reg.Divisions[0].MajorCities[0].Active {
		t.Fatal("city should be forced inactive under an inactive division")
	}
	if reg.Version != 3 {
		t.Fatalf("version = %d, want 3", reg.Version)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestToggleRetriesAfterVersionRace(t *testing.T) {
	repo, mock := newMockRegionRepo(t)
	doc := treeDoc(t, newEnglandDivisions())

	// First attempt loads version 7 and loses the conditional write.
	mock.ExpectQuery("FROM regions WHERE id").WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(regionColumns()).AddRow(3, "Northeast", "NE", true, doc, 7))
	mock.ExpectExec("UPDATE regions").WillReturnResult(sqlmock.NewResult(0, 0))
	// Second attempt re-reads the advanced row and wins.
	mock.ExpectQuery("FROM regions WHERE id").WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(regionColumns()).AddRow(3, "Northeast", "NE", true, doc, 8))
	mock.ExpectExec("UPDATE regions").WillReturnResult(sqlmock.NewResult(0, 1))

	reg, err := repo.SetRegionActive(context.Background(), 3, false)
	if err != nil {
		t.Fatalf("SetRegionActive: %v", err)
	}
	if reg.Version != 9 {
		t.Fatalf("version = %d, want 9 (cascade applied to the re-read row)", reg.Version)
	}
	if reg.Active || reg.Divisions[0].Active || reg.Divisions[0].MajorCities[0].Active {
		t.Fatal("deactivation should cascade down the re-read tree")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestToggleReportsConflictAfterRetriesExhausted(t *testing.T) {
	repo, mock := newMockRegionRepo(t)

	for i := 0; i < cascadeRetries; i++ {
		doc := treeDoc(t, newEnglandDivisions())
		mock.ExpectQuery("FROM regions WHERE id").WithArgs(uint64(3)).
			WillReturnRows(sqlmock.NewRows(regionColumns()).AddRow(3, "Northeast", "NE", true, doc, 7+i))
		mock.ExpectExec("UPDATE regions").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	if _, err := repo.SetRegionActive(context.Background(), 3, false); !errors.Is(err, ErrConcurrentUpdate) {
		t.Fatalf("want ErrConcurrentUpdate, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
