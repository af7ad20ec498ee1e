package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/plzfm/song-request-kiosk/internal/repository"
)

// DeleteTicket handles DELETE /v1/tickets/:id. The variant row goes
// with the ticket in one transaction.
func (h *StaffHandler) DeleteTicket(c echo.Context) error {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	if err := h.TicketRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete ticket"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteShow handles DELETE /v1/shows/:id. All of the show's tickets
// and their variants are removed along with the show; crates survive
// because other shows may reference them.
func (h *StaffHandler) DeleteShow(c echo.Context) error {
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || showID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	if err := h.ShowRepo.Delete(c.Request().Context(), showID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete show"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteCrate handles DELETE /v1/crates/:id. The crate's songs are
// removed, and with them every selected ticket that referenced one of
// those songs, so no variant row is ever left pointing at a missing
// song.
func (h *StaffHandler) DeleteCrate(c echo.Context) error {
	crateID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || crateID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid crate id"})
	}
	if err := h.CrateRepo.Delete(c.Request().Context(), crateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "crate not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete crate"})
	}
	return c.NoContent(http.StatusNoContent)
}
