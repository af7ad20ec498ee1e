package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// Queue handles GET /v1/queue/:show_id. It returns the reconciled
// request stream for a show, freeform and selected tickets merged into
// one ordered list. Pass unprinted=true to see only tickets still
// waiting for a printer.
func (h *StaffHandler) Queue(c echo.Context) error {
	showID, err := strconv.ParseUint(c.Param("show_id"), 10, 64)
	if err != nil || showID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	unprintedOnly := c.QueryParam("unprinted") == "true"
	entries, err := h.Dispatcher.Stream(c.Request().Context(), showID, unprintedOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load queue"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": entries})
}

// Claim handles POST /v1/queue/:show_id/claim. It hands the oldest
// unprinted ticket to the calling print worker and marks it printed in
// the same transaction, so two workers racing for the head of the queue
// never receive the same ticket. An empty queue returns 204.
func (h *StaffHandler) Claim(c echo.Context) error {
	showID, err := strconv.ParseUint(c.Param("show_id"), 10, 64)
	if err != nil || showID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var body struct {
		WorkerID string `json:"worker_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	workerID := strings.TrimSpace(body.WorkerID)
	if workerID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "worker_id is required"})
	}
	entry, err := h.Dispatcher.ClaimNext(c.Request().Context(), showID, workerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "claim failed"})
	}
	if entry == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, entry)
}
