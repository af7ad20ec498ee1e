package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/plzfm/song-request-kiosk/internal/model"
	"github.com/plzfm/song-request-kiosk/internal/repository"
	"github.com/plzfm/song-request-kiosk/internal/service"
)

// RequestHandler accepts kiosk submissions and feeds them to the
// ingestion engine. The engine owns all validation beyond basic shape
// checks; the handler's job is translating transport details (source
// IP, path params) and mapping engine errors onto HTTP responses.
type RequestHandler struct {
	ShowRepo *repository.ShowRepo
	Engine   *service.IngestEngine
}

// NewRequestHandler constructs a RequestHandler. Both dependencies must
// be non-nil.
func NewRequestHandler(showRepo *repository.ShowRepo, engine *service.IngestEngine) *RequestHandler {
	if showRepo == nil || engine == nil {
		panic("nil dependency passed to NewRequestHandler")
	}
	return &RequestHandler{ShowRepo: showRepo, Engine: engine}
}

type submitReq struct {
	RequestedBy string  `json:"requested_by"`
	Notes       *string `json:"notes"`
	// Exactly one of the following groups must be present.
	Artist string `json:"artist"`  // freeform
	Title  string `json:"title"`   // freeform
	SongID string `json:"song_id"` // selected
}

// Submit handles POST /v1/shows/:id/requests. The body carries either
// freeform artist/title text or a song_id picked from the catalog.
// Responses: 201 with the ticket on success, 403 for blocked sources,
// 422 for selected songs not in the show's catalog, 409 when the store
// rejects the write with a constraint violation (retryable).
func (h *RequestHandler) Submit(c echo.Context) error {
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || showID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	show, err := h.ShowRepo.GetByID(c.Request().Context(), showID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !show.Active {
		return c.JSON(http.StatusConflict, echo.Map{"error": "show is not accepting requests"})
	}

	var body submitReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	sub := service.Submission{
		SourceIP:    c.RealIP(),
		RequestedBy: body.RequestedBy,
		ShowID:      showID,
		Notes:       body.Notes,
	}
	hasFreeform := strings.TrimSpace(body.Artist) != "" || strings.TrimSpace(body.Title) != ""
	hasSelected := strings.TrimSpace(body.SongID) != ""
	if hasFreeform {
		sub.Freeform = &model.FreeformRequest{Artist: body.Artist, Title: body.Title}
	}
	if hasSelected {
		sub.Selected = &model.SelectedRequest{SongID: strings.TrimSpace(body.SongID)}
	}

	ticket, err := h.Engine.Submit(c.Request().Context(), sub)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidChoice):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide either artist/title or song_id"})
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrBlocked):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "requests from this address are not accepted"})
		case errors.Is(err, repository.ErrUnknownSong):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "song is not in this show's catalog"})
		case errors.Is(err, repository.ErrConstraint):
			return c.JSON(http.StatusConflict, echo.Map{"error": "could not record request, please retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record request"})
	}
	return c.JSON(http.StatusCreated, ticket)
}
