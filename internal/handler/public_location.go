package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jmfreeston/events-directory-api/internal/repository"
)

// GetLocation handles GET /v1/locations/:id.
func (h *PublicHandler) GetLocation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	loc, err := h.LocationRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, loc)
}

// ListLocations handles GET /v1/locations. An optional cityId query
// parameter narrows the listing to venues assigned to that taxonomy
// city.
func (h *PublicHandler) ListLocations(c echo.Context) error {
	ctx := c.Request().Context()
	if raw := c.QueryParam("cityId"); raw != "" {
		cityID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cityId"})
		}
		items, err := h.LocationRepo.ListByCalculatedCity(ctx, cityID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return c.JSON(http.StatusOK, echo.Map{"items": items})
	}
	items, err := h.LocationRepo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
