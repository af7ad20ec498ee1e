package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/plzfm/song-request-kiosk/internal/repository"
)

// PublicHandler serves the unauthenticated kiosk browse endpoints: the
// list of active shows, a show's song picker and the per-show artist
// appearance counts. These are read-only and sit behind the Redis
// response cache.
type PublicHandler struct {
	ShowRepo *repository.ShowRepo
	SongRepo *repository.SongRepo
}

// NewPublicHandler constructs a PublicHandler with the provided
// repositories. All dependencies must be non-nil.
func NewPublicHandler(showRepo *repository.ShowRepo, songRepo *repository.SongRepo) *PublicHandler {
	if showRepo == nil || songRepo == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{ShowRepo: showRepo, SongRepo: songRepo}
}

// ListShows handles GET /v1/shows and returns all active shows ordered
// by name.
func (h *PublicHandler) ListShows(c echo.Context) error {
	shows, err := h.ShowRepo.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load shows"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": shows})
}

// ListShowSongs handles GET /v1/shows/:id/songs. It returns the songs
// reachable from the show's crates, optionally filtered with the
// artist_id query parameter. This is the data source for the kiosk's
// song picker.
func (h *PublicHandler) ListShowSongs(c echo.Context) error {
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || showID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	if _, err := h.ShowRepo.GetByID(c.Request().Context(), showID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	songs, err := h.SongRepo.ListForShow(c.Request().Context(), showID, c.QueryParam("artist_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load songs"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": songs})
}

// ListShowArtists handles GET /v1/shows/:id/artists and returns the
// appearance counts: for each artist, how many songs in the show's
// crates reference them. Recomputed from the catalog on every call.
func (h *PublicHandler) ListShowArtists(c echo.Context) error {
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || showID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	if _, err := h.ShowRepo.GetByID(c.Request().Context(), showID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	counts, err := h.SongRepo.AppearanceCounts(c.Request().Context(), showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load artists"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": counts})
}
