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

// CreateRegion handles POST /v1/admin/regions and stores a whole
// region document: the region row plus its nested divisions and
// cities in one shot. Node ids inside the tree are assigned by the
// repository.
func (h *AdminHandler) CreateRegion(c echo.Context) error {
	var reg model.Region
	if err := c.Bind(&reg); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	reg.RegionName = strings.TrimSpace(reg.RegionName)
	reg.RegionCode = strings.TrimSpace(reg.RegionCode)
	if reg.RegionName == "" || reg.RegionCode == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "regionName and regionCode are required"})
	}
	if err := h.RegionRepo.Create(c.Request().Context(), &reg); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "region name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create region"})
	}
	return c.JSON(http.StatusCreated, reg)
}

// UpdateRegion handles PUT /v1/admin/regions/:regionId and replaces
// the region's names and tree structure. Renames here do NOT rewrite
// the denormalized name snapshots on existing locations, organizers
// or events.
func (h *AdminHandler) UpdateRegion(c echo.Context) error {
	id, err := pathID(c, "regionId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid region id"})
	}
	var reg model.Region
	if err := c.Bind(&reg); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	current, err := h.RegionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRegionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "region not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	reg.ID = id
	reg.Active = current.Active
	reg.Version = current.Version
	if strings.TrimSpace(reg.RegionName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "regionName is required"})
	}
	if err := h.RegionRepo.Update(ctx, &reg); err != nil {
		switch {
		case errors.Is(err, repository.ErrRegionNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "region not found"})
		case errors.Is(err, repository.ErrConcurrentUpdate):
			return c.JSON(http.StatusConflict, echo.Map{"error": "region was modified concurrently"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, reg)
}

// activeReq is the body for all three activation toggles.
type activeReq struct {
	Active bool `json:"active"`
}

// SetRegionActive handles PUT /v1/admin/regions/:regionId/active.
// Deactivating cascades down to every division and city; activating
// touches only the region itself.
func (h *AdminHandler) SetRegionActive(c echo.Context) error {
	id, err := pathID(c, "regionId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid region id"})
	}
	var body activeReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	reg, err := h.RegionRepo.SetRegionActive(c.Request().Context(), id, body.Active)
	if err != nil {
		return regionCascadeError(c, err)
	}
	return c.JSON(http.StatusOK, reg)
}

// SetDivisionActive handles
// PUT /v1/admin/regions/:regionId/divisions/:divisionId/active.
// Activating a division forces its region active; deactivating one
// cascades down to its cities.
func (h *AdminHandler) SetDivisionActive(c echo.Context) error {
	regionID, err := pathID(c, "regionId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid region id"})
	}
	divisionID, err := pathID(c, "divisionId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid division id"})
	}
	var body activeReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	reg, err := h.RegionRepo.SetDivisionActive(c.Request().Context(), regionID, divisionID, body.Active)
	if err != nil {
		return regionCascadeError(c, err)
	}
	return c.JSON(http.StatusOK, reg)
}

// SetCityActive handles
// PUT /v1/admin/regions/:regionId/divisions/:divisionId/cities/:cityId/active.
// Activating a city forces its division and region active; a city
// deactivation never touches anything else.
func (h *AdminHandler) SetCityActive(c echo.Context) error {
	regionID, err := pathID(c, "regionId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid region id"})
	}
	divisionID, err := pathID(c, "divisionId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid division id"})
	}
	cityID, err := pathID(c, "cityId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid city id"})
	}
	var body activeReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	reg, err := h.RegionRepo.SetCityActive(c.Request().Context(), regionID, divisionID, cityID, body.Active)
	if err != nil {
		return regionCascadeError(c, err)
	}
	return c.JSON(http.StatusOK, reg)
}

// regionCascadeError maps cascade failures onto HTTP responses shared
// by the three activation toggles.
func regionCascadeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrRegionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "region not found"})
	case errors.Is(err, taxonomy.ErrDivisionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "division not found"})
	case errors.Is(err, taxonomy.ErrCityNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "city not found"})
	case errors.Is(err, repository.ErrConcurrentUpdate):
		return c.JSON(http.StatusConflict, echo.Map{"error": "region was modified concurrently"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
}
