package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jmfreeston/events-directory-api/internal/model"
	"github.com/jmfreeston/events-directory-api/internal/repository"
	"github.com/jmfreeston/events-directory-api/internal/taxonomy"
)

// locationReq is the body for creating and updating venues.
type locationReq struct {
	Name      string   `json:"name"`
	Address1  string   `json:"address_1"`
	Address2  string   `json:"address_2"`
	Address3  string   `json:"address_3"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Zip       string   `json:"zip"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	ImageURL  string   `json:"imageUrl"`
}

// CreateLocation handles POST /v1/locations. The coordinate is
// required because it drives the geo assignment: the venue's
// calculated region/division/city triple is resolved and stamped here
// and only refreshed when the coordinate changes.
func (h *OrganizerHandler) CreateLocation(c echo.Context) error {
	var req locationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Latitude == nil || req.Longitude == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "latitude and longitude are required"})
	}

	ctx := c.Request().Context()
	tree, err := h.RegionRepo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	assignment, err := taxonomy.Resolve(tree, *req.Latitude, *req.Longitude)
	if err != nil {
		return locationResolveError(c, err)
	}

	loc := &model.Location{
		Name:       req.Name,
		Address1:   req.Address1,
		Address2:   req.Address2,
		Address3:   req.Address3,
		City:       req.City,
		State:      req.State,
		Zip:        req.Zip,
		Country:    orFallback(req.Country, "USA"),
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		ImageURL:   req.ImageURL,
		ActiveFlag: true,
	}
	taxonomy.Bind(&loc.CalculatedPlace, assignment)

	if err := h.LocationRepo.Create(ctx, loc); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "location name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create location"})
	}
	return c.JSON(http.StatusCreated, loc)
}

// UpdateLocation handles PUT /v1/locations/:id. Address edits leave
// the calculated triple alone; a coordinate change re-runs the
// resolver and re-stamps it, which is the only way an existing
// venue's snapshot names ever refresh.
func (h *OrganizerHandler) UpdateLocation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req locationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	loc, err := h.LocationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		loc.Name = name
	}
	if req.Address1 != "" {
		loc.Address1 = req.Address1
	}
	if req.Address2 != "" {
		loc.Address2 = req.Address2
	}
	if req.Address3 != "" {
		loc.Address3 = req.Address3
	}
	if req.City != "" {
		loc.City = req.City
	}
	if req.State != "" {
		loc.State = req.State
	}
	if req.Zip != "" {
		loc.Zip = req.Zip
	}
	if req.Country != "" {
		loc.Country = req.Country
	}
	if req.ImageURL != "" {
		loc.ImageURL = req.ImageURL
	}

	if req.Latitude != nil && req.Longitude != nil {
		moved := *req.Latitude != loc.Latitude || *req.Longitude != loc.Longitude
		loc.Latitude = *req.Latitude
		loc.Longitude = *req.Longitude
		if moved {
			tree, err := h.RegionRepo.ListAll(ctx)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
			}
			assignment, err := taxonomy.Resolve(tree, loc.Latitude, loc.Longitude)
			if err != nil {
				return locationResolveError(c, err)
			}
			taxonomy.Bind(&loc.CalculatedPlace, assignment)
		}
	}

	if err := h.LocationRepo.Update(ctx, loc); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, loc)
}

// DeleteLocation handles DELETE /v1/admin/locations/:id. Venues still
// referenced by events are refused so event rows never point at a
// missing location.
func (h *AdminHandler) DeleteLocation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	n, err := h.EventRepo.CountByLocation(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if n > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "location is referenced by events"})
	}
	if err := h.LocationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// locationResolveError maps resolver failures onto client responses.
func locationResolveError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, taxonomy.ErrInvalidCoordinates):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "latitude and longitude must be finite numbers"})
	case errors.Is(err, taxonomy.ErrNoCandidates):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "taxonomy has no cities to assign against"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
}
