// Package router defines how HTTP routes are registered for the API.
// The surface splits in three: unauthenticated kiosk routes (browse and
// submit), the token exchange, and the staff routes behind StaffAuth.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/plzfm/song-request-kiosk/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication
// and are not part of the kiosk surface. Currently it exposes only a
// health check, used by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the token exchange. POST /v1/auth/token trades
// an API key credential for a short-lived staff JWT; credential
// management itself lives on the staff group because issuing or
// revoking keys already requires a valid token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/v1/auth/token", a.IssueToken)
}
