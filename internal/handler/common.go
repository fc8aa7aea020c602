// Package handler exposes HTTP handlers for the directory API:
// administrative taxonomy management, organizer-facing event and venue
// endpoints, and the unauthenticated public browsing surface.
package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jmfreeston/events-directory-api/internal/queue"
	"github.com/jmfreeston/events-directory-api/internal/repository"
)

// AdminHandler bundles the repositories behind the ADMIN-only routes:
// taxonomy management, organizer onboarding and category curation.
type AdminHandler struct {
	RegionRepo    *repository.RegionRepo
	OrganizerRepo *repository.OrganizerRepo
	LocationRepo  *repository.LocationRepo
	EventRepo     *repository.EventRepo
	CategoryRepo  *repository.CategoryRepo
}

// NewAdminHandler constructs an AdminHandler and panics if any dependency is nil.
func NewAdminHandler(regions *repository.RegionRepo, organizers *repository.OrganizerRepo, locations *repository.LocationRepo, events *repository.EventRepo, categories *repository.CategoryRepo) *AdminHandler {
	if regions == nil || organizers == nil || locations == nil || events == nil || categories == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{
		RegionRepo:    regions,
		OrganizerRepo: organizers,
		LocationRepo:  locations,
		EventRepo:     events,
		CategoryRepo:  categories,
	}
}

// OrganizerHandler bundles the repositories behind routes available to
// authenticated organizers: their venues and their events.
type OrganizerHandler struct {
	RegionRepo    *repository.RegionRepo
	OrganizerRepo *repository.OrganizerRepo
	LocationRepo  *repository.LocationRepo
	EventRepo     *repository.EventRepo
	CategoryRepo  *repository.CategoryRepo

	// Publish, when set, receives a fire-and-forget activity message
	// after a successful write. Nil disables publishing.
	Publish func(msg queue.ActivityMessage)
}

// NewOrganizerHandler constructs an OrganizerHandler and panics if any dependency is nil.
func NewOrganizerHandler(regions *repository.RegionRepo, organizers *repository.OrganizerRepo, locations *repository.LocationRepo, events *repository.EventRepo, categories *repository.CategoryRepo) *OrganizerHandler {
	if regions == nil || organizers == nil || locations == nil || events == nil || categories == nil {
		panic("nil repository passed to NewOrganizerHandler")
	}
	return &OrganizerHandler{
		RegionRepo:    regions,
		OrganizerRepo: organizers,
		LocationRepo:  locations,
		EventRepo:     events,
		CategoryRepo:  categories,
	}
}

// getUserID extracts the user_id set by the JWT middleware and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// isAdmin reports whether the JWT middleware stored the ADMIN role.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == repository.RoleAdmin
}

// pathID parses a numeric path parameter; malformed ids are the
// caller's 400, not a 404.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
