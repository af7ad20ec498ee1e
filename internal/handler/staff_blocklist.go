package handler

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/plzfm/song-request-kiosk/internal/repository"
)

// ListBlocklist handles GET /v1/blocklist.
func (h *StaffHandler) ListBlocklist(c echo.Context) error {
	entries, err := h.BlockRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load blocklist"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": entries})
}

// Block handles POST /v1/blocklist. Blocking an already blocked address
// updates its notes rather than erroring, so the endpoint can be
// retried safely.
func (h *StaffHandler) Block(c echo.Context) error {
	var body struct {
		IPAddress  string  `json:"ip_address"`
		ReverseDNS *string `json:"reverse_dns"`
		Notes      *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ip := strings.TrimSpace(body.IPAddress)
	if net.ParseIP(ip) == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ip_address must be a valid IP address"})
	}
	if err := h.BlockRepo.Block(c.Request().Context(), ip, body.ReverseDNS, body.Notes); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not block address"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"ip_address": ip})
}

// Unblock handles DELETE /v1/blocklist/:ip.
func (h *StaffHandler) Unblock(c echo.Context) error {
	ip := strings.TrimSpace(c.Param("ip"))
	if net.ParseIP(ip) == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ip address"})
	}
	if err := h.BlockRepo.Unblock(c.Request().Context(), ip); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "address is not blocked"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not unblock address"})
	}
	return c.NoContent(http.StatusNoContent)
}
