package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jmfreeston/events-directory-api/internal/repository"
)

// SearchEvents handles GET /v1/events/byCalculatedLocations, the main
// public calendar query. It filters on the denormalized name
// snapshots stamped onto each event at creation, so it answers from
// the events table alone. Results come back ordered by start date
// ascending.
//
// Query parameters: calculatedRegionName, startDate and endDate are
// required; calculatedDivisionName and calculatedCityName narrow the
// scope; active defaults to true.
func (h *PublicHandler) SearchEvents(c echo.Context) error {
	q := repository.EventSearchQuery{
		CalculatedRegionName:   strings.TrimSpace(c.QueryParam("calculatedRegionName")),
		CalculatedDivisionName: strings.TrimSpace(c.QueryParam("calculatedDivisionName")),
		CalculatedCityName:     strings.TrimSpace(c.QueryParam("calculatedCityName")),
		Active:                 true,
	}
	if raw := strings.TrimSpace(c.QueryParam("active")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "active must be true or false"})
		}
		q.Active = v
	}
	var err error
	if q.Start, err = parseDateParam(c.QueryParam("startDate")); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "startDate must be RFC 3339 or YYYY-MM-DD"})
	}
	if q.End, err = parseDateParam(c.QueryParam("endDate")); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "endDate must be RFC 3339 or YYYY-MM-DD"})
	}
	if err := q.Validate(); err != nil {
		if errors.Is(err, repository.ErrInvalidArgument) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	items, err := h.EventRepo.SearchByCalculatedLocations(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": len(items)})
}

// ListEvents handles GET /v1/events and returns every event in the
// directory, unscoped. Calendar clients use the scoped
// byCalculatedLocations query instead; this exists for exports and
// admin tooling.
func (h *PublicHandler) ListEvents(c echo.Context) error {
	items, err := h.EventRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetEvent handles GET /v1/events/:id.
func (h *PublicHandler) GetEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ev, err := h.EventRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, ev)
}

// parseDateParam accepts either a full RFC 3339 timestamp or a bare
// calendar date. An empty value parses to the zero time so that
// Validate can report the missing field by name.
func parseDateParam(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
