package router

import (
	"github.com/labstack/echo/v4"

	"github.com/plzfm/song-request-kiosk/internal/handler"
	"github.com/plzfm/song-request-kiosk/internal/middleware"
)

// RegisterStaff registers every staff-scoped endpoint under /v1. All
// routes require a valid staff JWT: catalog loading, the print queue,
// the blocklist, credential management and administrative deletes.
func RegisterStaff(e *echo.Echo, h *handler.StaffHandler, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.StaffAuth(jwtSecret))

	// Credential management. The first key is minted out of band; from
	// then on staff issue and revoke keys with a valid token.
	g.POST("/auth/keys", a.CreateKey)
	g.DELETE("/auth/keys/:id", a.RevokeKey)

	// Catalog.
	g.POST("/shows", h.CreateShow)
	g.POST("/shows/:id/crates", h.AssociateCrates)
	g.POST("/crates", h.CreateCrate)
	g.GET("/crates", h.ListCrates)
	g.POST("/crates/:id/songs", h.AddSong)

	// Print queue.
	g.GET("/queue/:show_id", h.Queue)
	g.POST("/queue/:show_id/claim", h.Claim)

	// Blocklist.
	g.GET("/blocklist", h.ListBlocklist)
	g.POST("/blocklist", h.Block)
	g.DELETE("/blocklist/:ip", h.Unblock)

	// Administrative deletes.
	g.DELETE("/tickets/:id", h.DeleteTicket)
	g.DELETE("/shows/:id", h.DeleteShow)
	g.DELETE("/crates/:id", h.DeleteCrate)
}
