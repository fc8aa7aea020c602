// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/jmfreeston/events-directory-api/internal/handler"
	"github.com/jmfreeston/events-directory-api/internal/middleware"
	"github.com/jmfreeston/events-directory-api/internal/repository"
)

// RegisterRoutes registers routes that need no authentication or
// dependencies. Currently just the health check used by load
// balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Register,
// login and the refresh variants live under /v1/auth without a
// session; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout takes a refresh token in the body so it works without
	// the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin:
// taxonomy documents and their activation toggles, organizer
// onboarding, category curation and venue deletion.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RoleAdmin),
	)

	// ---- Regions ----
	g.POST("/regions", a.CreateRegion)
	g.PUT("/regions/:regionId", a.UpdateRegion)
	g.PATCH("/regions/:regionId", a.UpdateRegion)

	// ---- Activation toggles ----
	g.PUT("/regions/:regionId/active", a.SetRegionActive)
	g.PUT("/regions/:regionId/divisions/:divisionId/active", a.SetDivisionActive)
	g.PUT("/regions/:regionId/divisions/:divisionId/cities/:cityId/active", a.SetCityActive)

	// ---- Organizers ----
	g.POST("/organizers", a.CreateOrganizer)
	g.GET("/organizers", a.ListOrganizers)
	g.GET("/organizers/:id", a.GetOrganizer)
	g.PUT("/organizers/:id", a.UpdateOrganizer)
	g.PATCH("/organizers/:id", a.UpdateOrganizer)
	g.PUT("/organizers/:id/active", a.SetOrganizerActive)

	// ---- Categories ----
	g.POST("/categories", a.CreateCategory)

	// ---- Locations ----
	g.DELETE("/locations/:id", a.DeleteLocation)
}

// RegisterOrganizer registers endpoints for authenticated organizers:
// venue management and event CRUD. Admins pass the role check too so
// they can manage any organizer's events.
func RegisterOrganizer(e *echo.Echo, h *handler.OrganizerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RoleOrganizer, repository.RoleAdmin),
	)

	// ---- Locations ----
	g.POST("/locations", h.CreateLocation)
	g.PUT("/locations/:id", h.UpdateLocation)
	g.PATCH("/locations/:id", h.UpdateLocation)

	// ---- Events ----
	g.POST("/events", h.CreateEvent)
	g.PUT("/events/:id", h.UpdateEvent)
	g.PATCH("/events/:id", h.UpdateEvent)
	g.DELETE("/events/:id", h.DeleteEvent)
	g.GET("/my/events", h.ListMyEvents)
}
