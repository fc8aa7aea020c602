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

// errPlacementChoice rejects requests that mix or omit the two
// placement styles.
var errPlacementChoice = errors.New("provide either latitude/longitude or an explicit region/division/city triple")

// organizerReq is the body for creating and updating organizers.
// Placement is either a coordinate (run through the geo resolver) or
// an explicit region/division/city id triple, never both.
type organizerReq struct {
	Name        string   `json:"name"`
	ShortName   string   `json:"shortName"`
	LoginUserID uint64   `json:"loginUserId"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Phone       string   `json:"phone"`
	PublicEmail string   `json:"publicEmail"`
	PaymentTier string   `json:"paymentTier"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	RegionID    uint64   `json:"calculatedRegionId"`
	DivisionID  uint64   `json:"calculatedDivisionId"`
	CityID      uint64   `json:"calculatedCityId"`
}

// placement resolves the request's placement choice into an
// Assignment, enforcing the coordinate-XOR-triple rule.
func (r *organizerReq) placement(c echo.Context, h *AdminHandler) (taxonomy.Assignment, error) {
	hasCoord := r.Latitude != nil && r.Longitude != nil
	hasTriple := r.RegionID != 0 || r.DivisionID != 0 || r.CityID != 0
	if hasCoord == hasTriple {
		return taxonomy.Assignment{}, errPlacementChoice
	}
	tree, err := h.RegionRepo.ListAll(c.Request().Context())
	if err != nil {
		return taxonomy.Assignment{}, err
	}
	if hasCoord {
		return taxonomy.Resolve(tree, *r.Latitude, *r.Longitude)
	}
	return taxonomy.Lookup(tree, r.RegionID, r.DivisionID, r.CityID)
}

// CreateOrganizer handles POST /v1/admin/organizers. New organizers
// start active on the free tier unless told otherwise, and get their
// calculated place stamped once here; later taxonomy renames do not
// touch it.
func (h *AdminHandler) CreateOrganizer(c echo.Context) error {
	var req organizerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	assignment, err := req.placement(c, h)
	if err != nil {
		return organizerPlacementError(c, err)
	}

	org := &model.Organizer{
		Name:        req.Name,
		ShortName:   orFallback(strings.TrimSpace(req.ShortName), req.Name),
		LoginUserID: req.LoginUserID,
		URL:         req.URL,
		Description: req.Description,
		Phone:       req.Phone,
		PublicEmail: req.PublicEmail,
		ActiveFlag:  true,
		PaymentTier: orFallback(req.PaymentTier, model.TierFree),
	}
	taxonomy.Bind(&org.CalculatedPlace, assignment)

	if err := h.OrganizerRepo.Create(c.Request().Context(), org); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "organizer name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create organizer"})
	}
	return c.JSON(http.StatusCreated, org)
}

// UpdateOrganizer handles PUT /v1/admin/organizers/:id. Contact and
// tier fields always update; the calculated place is re-stamped only
// when the request carries a new placement.
func (h *AdminHandler) UpdateOrganizer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req organizerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	org, err := h.OrganizerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrganizerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "organizer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		org.Name = name
	}
	if short := strings.TrimSpace(req.ShortName); short != "" {
		org.ShortName = short
	}
	if req.LoginUserID != 0 {
		org.LoginUserID = req.LoginUserID
	}
	if req.URL != "" {
		org.URL = req.URL
	}
	if req.Description != "" {
		org.Description = req.Description
	}
	if req.Phone != "" {
		org.Phone = req.Phone
	}
	if req.PublicEmail != "" {
		org.PublicEmail = req.PublicEmail
	}
	if req.PaymentTier != "" {
		org.PaymentTier = req.PaymentTier
	}

	hasCoord := req.Latitude != nil && req.Longitude != nil
	hasTriple := req.RegionID != 0 || req.DivisionID != 0 || req.CityID != 0
	if hasCoord || hasTriple {
		assignment, err := req.placement(c, h)
		if err != nil {
			return organizerPlacementError(c, err)
		}
		taxonomy.Bind(&org.CalculatedPlace, assignment)
	}

	if err := h.OrganizerRepo.Update(ctx, org); err != nil {
		if errors.Is(err, repository.ErrOrganizerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "organizer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, org)
}

// ListOrganizers handles GET /v1/admin/organizers.
func (h *AdminHandler) ListOrganizers(c echo.Context) error {
	items, err := h.OrganizerRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetOrganizer handles GET /v1/admin/organizers/:id.
func (h *AdminHandler) GetOrganizer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	org, err := h.OrganizerRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrganizerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "organizer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, org)
}

// SetOrganizerActive handles PUT /v1/admin/organizers/:id/active.
// Deactivated organizers keep their events but cannot create new ones.
func (h *AdminHandler) SetOrganizerActive(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body activeReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.OrganizerRepo.SetActiveFlag(c.Request().Context(), id, body.Active); err != nil {
		if errors.Is(err, repository.ErrOrganizerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "organizer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// organizerPlacementError maps placement failures to client errors.
func organizerPlacementError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, taxonomy.ErrInvalidCoordinates),
		errors.Is(err, taxonomy.ErrNoCandidates):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, taxonomy.ErrRegionNotFound),
		errors.Is(err, taxonomy.ErrDivisionNotFound),
		errors.Is(err, taxonomy.ErrCityNotFound):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "placement triple does not exist in the taxonomy"})
	case errors.Is(err, repository.ErrRegionNotFound):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "placement triple does not exist in the taxonomy"})
	case errors.Is(err, errPlacementChoice):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
}

// orFallback returns v unless it is empty.
func orFallback(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
