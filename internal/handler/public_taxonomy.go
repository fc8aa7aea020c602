package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jmfreeston/events-directory-api/internal/repository"
)

// PublicHandler aggregates repositories for the unauthenticated
// browsing API: taxonomy listings, venue lookups and event queries.
type PublicHandler struct {
	RegionRepo   *repository.RegionRepo
	LocationRepo *repository.LocationRepo
	EventRepo    *repository.EventRepo
	CategoryRepo *repository.CategoryRepo
}

// NewPublicHandler constructs a PublicHandler and panics if any dependency is nil.
func NewPublicHandler(regions *repository.RegionRepo, locations *repository.LocationRepo, events *repository.EventRepo, categories *repository.CategoryRepo) *PublicHandler {
	if regions == nil || locations == nil || events == nil || categories == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{
		RegionRepo:   regions,
		LocationRepo: locations,
		EventRepo:    events,
		CategoryRepo: categories,
	}
}

// ListRegions handles GET /v1/regions and returns every region
// document, active or not, with the full division/city tree. This is
// the listing admin UIs build their tree views from.
func (h *PublicHandler) ListRegions(c echo.Context) error {
	regions, err := h.RegionRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": regions})
}

// ListActiveRegions handles GET /v1/regions/active and returns only
// regions whose own active flag is set, with their trees intact.
func (h *PublicHandler) ListActiveRegions(c echo.Context) error {
	regions, err := h.RegionRepo.ListActiveRegions(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": regions})
}

// ListActiveDivisions handles GET /v1/divisions/active. Each row is a
// division flattened together with its parent region's name, filtered
// to divisions that are active inside active regions.
func (h *PublicHandler) ListActiveDivisions(c echo.Context) error {
	rows, err := h.RegionRepo.ListActiveDivisions(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows})
}

// ListActiveCities handles GET /v1/cities/active. Rows carry the full
// region/division/city name chain so pickers need no follow-up calls.
func (h *PublicHandler) ListActiveCities(c echo.Context) error {
	rows, err := h.RegionRepo.ListActiveCities(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows})
}

// ListCategories handles GET /v1/categories and returns the active
// category names events can be filed under.
func (h *PublicHandler) ListCategories(c echo.Context) error {
	cats, err := h.CategoryRepo.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": cats})
}
