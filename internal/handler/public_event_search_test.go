package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func searchRequest(t *testing.T, query string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/events/byCalculatedLocations?"+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := &PublicHandler{}
	if err := h.SearchEvents(c); err != nil {
		t.Fatalf("SearchEvents: %v", err)
	}
	return rec
}

func TestSearchEventsRejectsGarbageActiveParam(t *testing.T) {
	rec := searchRequest(t, "calculatedRegionName=Northeast&startDate=2026-01-01&endDate=2026-02-01&active=banana")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), "active") {
		t.Fatalf("error should name the active parameter, got %s", rec.Body.String())
	}
}

func TestSearchEventsParsesBoolSpellings(t *testing.T) {
	// Omitting the region makes validation fail after the active flag
	// parsed, so an accepted spelling surfaces as a different 400.
	for _, raw := range []string{"0", "1", "TRUE", "False"} {
		rec := searchRequest(t, "startDate=2026-01-01&endDate=2026-02-01&active="+raw)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("active=%s: status = %d, want %d", raw, rec.Code, http.StatusBadRequest)
		}
		if strings.Contains(rec.Body.String(), "active must be") {
			t.Fatalf("active=%s should be a valid spelling, got %s", raw, rec.Body.String())
		}
	}
}
