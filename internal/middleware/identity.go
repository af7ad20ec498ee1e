package middleware

// identity.go defines helper functions shared across middleware files.
// currentStaffID pulls the credential identifier that StaffAuth stored
// in the Echo context; rate-limit keys use it so that authenticated
// staff traffic is bucketed per credential while kiosk guests share the
// per-IP bucket.

import (
	"github.com/labstack/echo/v4"
)

// currentStaffID returns the authenticated credential ID, or "guest"
// for unauthenticated kiosk traffic.
func currentStaffID(c echo.Context) string {
	if v := c.Get("credential_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "guest"
}
