package router

import (
	"github.com/labstack/echo/v4"

	"github.com/plzfm/song-request-kiosk/internal/handler"
)

// RegisterPublic registers the unauthenticated kiosk endpoints under
// /v1. Browse routes are read-only and sit behind the response cache
// and rate limiter passed in by the caller (either may be a no-op when
// Redis is unavailable). The submission route is rate limited but never
// cached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, r *handler.RequestHandler, cache, limit echo.MiddlewareFunc) {
	browse := e.Group("/v1", limit, cache)
	browse.GET("/shows", p.ListShows)
	browse.GET("/shows/:id/songs", p.ListShowSongs)
	browse.GET("/shows/:id/artists", p.ListShowArtists)

	submit := e.Group("/v1", limit)
	submit.POST("/shows/:id/requests", r.Submit)
}
