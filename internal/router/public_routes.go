package router

import (
	"github.com/labstack/echo/v4"

	"github.com/jmfreeston/events-directory-api/internal/handler"
)

// RegisterPublic registers the unauthenticated browsing endpoints:
// taxonomy listings, venue lookups and the calendar's event query.
// The caller passes in the middleware chain (response cache, rate
// limiter) so the wiring stays in main where the Redis client lives.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mws ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mws...)

	// ---- Taxonomy ----
	g.GET("/regions", p.ListRegions)
	g.GET("/regions/active", p.ListActiveRegions)
	g.GET("/divisions/active", p.ListActiveDivisions)
	g.GET("/cities/active", p.ListActiveCities)

	// ---- Categories ----
	g.GET("/categories", p.ListCategories)

	// ---- Locations ----
	g.GET("/locations", p.ListLocations)
	g.GET("/locations/:id", p.GetLocation)

	// ---- Events ----
	// The specific route must be registered before the :id route so
	// Echo does not treat "byCalculatedLocations" as an event id.
	g.GET("/events", p.ListEvents)
	g.GET("/events/byCalculatedLocations", p.SearchEvents)
	g.GET("/events/:id", p.GetEvent)
}
