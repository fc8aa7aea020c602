package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jmfreeston/events-directory-api/internal/model"
	"github.com/jmfreeston/events-directory-api/internal/queue"
	"github.com/jmfreeston/events-directory-api/internal/repository"
)

// eventReq is the body for creating and updating events. Dates are
// RFC 3339 strings.
type eventReq struct {
	Title                string `json:"title"`
	Description          string `json:"description"`
	CategoryFirst        string `json:"categoryFirst"`
	CategorySecond       string `json:"categorySecond"`
	CategoryThird        string `json:"categoryThird"`
	StartDate            string `json:"startDate"`
	EndDate              string `json:"endDate"`
	LocationID           uint64 `json:"locationId"`
	OwnerOrganizerID     uint64 `json:"ownerOrganizerId"`
	GrantedOrganizerID   uint64 `json:"grantedOrganizerId"`
	AlternateOrganizerID uint64 `json:"alternateOrganizerId"`
	EventImage           string `json:"eventImage"`
	RecurrenceRule       string `json:"recurrenceRule"`
	Cost                 string `json:"cost"`
	Featured             *bool  `json:"featured"`
	Canceled             *bool  `json:"canceled"`
	Active               *bool  `json:"active"`
	ExpiresAt            string `json:"expiresAt"`
}

// actingOrganizer resolves the authenticated user to the organizer
// the request acts for. Admins may act for any organizer by sending
// ownerOrganizerId; everyone else acts for the organizer linked to
// their login.
func (h *OrganizerHandler) actingOrganizer(c echo.Context, requestedOwner uint64) (*model.Organizer, error) {
	ctx := c.Request().Context()
	if isAdmin(c) && requestedOwner != 0 {
		return h.OrganizerRepo.GetByID(ctx, requestedOwner)
	}
	userID, err := getUserID(c)
	if err != nil {
		return nil, err
	}
	return h.OrganizerRepo.GetByLoginUser(ctx, userID)
}

// CreateEvent handles POST /v1/events. The event is stamped with
// snapshots taken now: the owner organizer's name, the location's
// name and the location's calculated region/division/city names.
// Those strings are what the public search filters on and they do not
// follow later renames.
func (h *OrganizerHandler) CreateEvent(c echo.Context) error {
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if req.CategoryFirst == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "categoryFirst is required"})
	}
	if req.LocationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "locationId is required"})
	}
	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "startDate must be RFC 3339"})
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "endDate must be RFC 3339"})
	}
	if end.Before(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "endDate precedes startDate"})
	}

	org, err := h.actingOrganizer(c, req.OwnerOrganizerID)
	if err != nil {
		if errors.Is(err, repository.ErrOrganizerNotFound) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "no organizer linked to this account"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !org.ActiveFlag {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "organizer is deactivated"})
	}

	ctx := c.Request().Context()
	loc, err := h.LocationRepo.GetByID(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	expires := end
	if req.ExpiresAt != "" {
		if expires, err = time.Parse(time.RFC3339, req.ExpiresAt); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "expiresAt must be RFC 3339"})
		}
	}

	ev := &model.Event{
		Title:                  req.Title,
		Description:            req.Description,
		CategoryFirst:          req.CategoryFirst,
		CategorySecond:         req.CategorySecond,
		CategoryThird:          req.CategoryThird,
		StartDate:              start,
		EndDate:                end,
		OwnerOrganizerID:       org.ID,
		GrantedOrganizerID:     req.GrantedOrganizerID,
		AlternateOrganizerID:   req.AlternateOrganizerID,
		OwnerOrganizerName:     org.Name,
		LocationID:             loc.ID,
		LocationName:           loc.Name,
		CalculatedRegionName:   loc.CalculatedRegionName,
		CalculatedDivisionName: loc.CalculatedDivisionName,
		CalculatedCityName:     loc.CalculatedCityName,
		EventImage:             req.EventImage,
		RecurrenceRule:         req.RecurrenceRule,
		Active:                 true,
		Cost:                   req.Cost,
		ExpiresAt:              expires,
	}
	if req.Featured != nil {
		ev.Featured = *req.Featured
	}

	if err := h.EventRepo.Create(ctx, ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create event"})
	}

	// Bookkeeping writes are best effort; the event row is already in.
	_ = h.LocationRepo.TouchLastUsed(ctx, loc.ID)
	_ = h.OrganizerRepo.TouchActivity(ctx, org.ID)

	if h.Publish != nil {
		h.Publish(queue.ActivityMessage{
			Kind: queue.KindEventCreated,
			Event: &queue.EventCreatedInfo{
				EventID:       ev.ID,
				Title:         ev.Title,
				OrganizerID:   org.ID,
				OrganizerName: org.Name,
				LocationID:    loc.ID,
				LocationName:  loc.Name,
				RegionName:    ev.CalculatedRegionName,
				DivisionName:  ev.CalculatedDivisionName,
				CityName:      ev.CalculatedCityName,
				StartsAt:      ev.StartDate.Format(time.RFC3339),
				EndsAt:        ev.EndDate.Format(time.RFC3339),
			},
		})
	}
	return c.JSON(http.StatusCreated, ev)
}

// canEdit reports whether the organizer may modify the event: the
// owner, the granted co-organizer, or any admin.
func canEdit(c echo.Context, ev *model.Event, org *model.Organizer) bool {
	if isAdmin(c) {
		return true
	}
	return ev.OwnerOrganizerID == org.ID || (ev.GrantedOrganizerID != 0 && ev.GrantedOrganizerID == org.ID)
}

// UpdateEvent handles PUT /v1/events/:id. Changing the location
// re-copies the location name and calculated name snapshots; nothing
// else ever refreshes them.
func (h *OrganizerHandler) UpdateEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	ev, err := h.EventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	org, err := h.actingOrganizer(c, 0)
	if err != nil && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no organizer linked to this account"})
	}
	if org == nil {
		org = &model.Organizer{}
	}
	if !canEdit(c, ev, org) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your event"})
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		ev.Title = title
	}
	if req.Description != "" {
		ev.Description = req.Description
	}
	if req.CategoryFirst != "" {
		ev.CategoryFirst = req.CategoryFirst
	}
	if req.CategorySecond != "" {
		ev.CategorySecond = req.CategorySecond
	}
	if req.CategoryThird != "" {
		ev.CategoryThird = req.CategoryThird
	}
	if req.StartDate != "" {
		t, err := time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "startDate must be RFC 3339"})
		}
		ev.StartDate = t
	}
	if req.EndDate != "" {
		t, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "endDate must be RFC 3339"})
		}
		ev.EndDate = t
	}
	if ev.EndDate.Before(ev.StartDate) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "endDate precedes startDate"})
	}
	if req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "expiresAt must be RFC 3339"})
		}
		ev.ExpiresAt = t
	}
	if req.EventImage != "" {
		ev.EventImage = req.EventImage
	}
	if req.RecurrenceRule != "" {
		ev.RecurrenceRule = req.RecurrenceRule
	}
	if req.Cost != "" {
		ev.Cost = req.Cost
	}
	if req.GrantedOrganizerID != 0 {
		ev.GrantedOrganizerID = req.GrantedOrganizerID
	}
	if req.AlternateOrganizerID != 0 {
		ev.AlternateOrganizerID = req.AlternateOrganizerID
	}
	if req.Featured != nil {
		ev.Featured = *req.Featured
	}
	if req.Canceled != nil {
		ev.Canceled = *req.Canceled
	}
	if req.Active != nil {
		ev.Active = *req.Active
	}

	if req.LocationID != 0 && req.LocationID != ev.LocationID {
		loc, err := h.LocationRepo.GetByID(ctx, req.LocationID)
		if err != nil {
			if errors.Is(err, repository.ErrLocationNotFound) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "location not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		ev.LocationID = loc.ID
		ev.LocationName = loc.Name
		ev.CalculatedRegionName = loc.CalculatedRegionName
		ev.CalculatedDivisionName = loc.CalculatedDivisionName
		ev.CalculatedCityName = loc.CalculatedCityName
		_ = h.LocationRepo.TouchLastUsed(ctx, loc.ID)
	}

	if err := h.EventRepo.Update(ctx, ev); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if org.ID != 0 {
		_ = h.OrganizerRepo.TouchActivity(ctx, org.ID)
	}
	return c.JSON(http.StatusOK, ev)
}

// DeleteEvent handles DELETE /v1/events/:id with the same owner,
// granted or admin rule as updates.
func (h *OrganizerHandler) DeleteEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	ev, err := h.EventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	org, err := h.actingOrganizer(c, 0)
	if err != nil && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no organizer linked to this account"})
	}
	if org == nil {
		org = &model.Organizer{}
	}
	if !canEdit(c, ev, org) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your event"})
	}
	if err := h.EventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMyEvents handles GET /v1/my/events and returns the events owned
// by the organizer linked to the authenticated user.
func (h *OrganizerHandler) ListMyEvents(c echo.Context) error {
	org, err := h.actingOrganizer(c, 0)
	if err != nil {
		if errors.Is(err, repository.ErrOrganizerNotFound) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "no organizer linked to this account"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.EventRepo.ListByOwner(c.Request().Context(), org.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
