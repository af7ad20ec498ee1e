package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/plzfm/song-request-kiosk/internal/model"
	"github.com/plzfm/song-request-kiosk/internal/repository"
)

// CreateShow handles POST /v1/shows. Show names are unique and
// immutable once created; a duplicate name comes back as 409.
func (h *StaffHandler) CreateShow(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	show := &model.Show{Name: name}
	if err := h.ShowRepo.Create(c.Request().Context(), show); err != nil {
		if errors.Is(err, repository.ErrConstraint) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "show name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create show"})
	}
	return c.JSON(http.StatusCreated, show)
}

// CreateCrate handles POST /v1/crates. Creation is resolve-or-create:
// posting an existing crate name returns the existing crate instead of
// erroring, which makes bulk loaders idempotent.
func (h *StaffHandler) CreateCrate(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	crate, err := h.CrateRepo.Resolve(c.Request().Context(), body.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create crate"})
	}
	return c.JSON(http.StatusCreated, crate)
}

// ListCrates handles GET /v1/crates and returns every crate.
func (h *StaffHandler) ListCrates(c echo.Context) error {
	crates, err := h.CrateRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load crates"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": crates})
}

// AssociateCrates handles POST /v1/shows/:id/crates. It links the given
// crate IDs with the show; pairs that already exist are skipped.
func (h *StaffHandler) AssociateCrates(c echo.Context) error {
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
	var body struct {
		CrateIDs []uint64 `json:"crate_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.CrateIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "crate_ids is required"})
	}
	if err := h.ShowRepo.AssociateCrates(c.Request().Context(), showID, body.CrateIDs); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "crate not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not associate crates"})
	}
	crates, err := h.ShowRepo.ListCrates(c.Request().Context(), showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": crates})
}

// AddSong handles POST /v1/crates/:id/songs. The artist name is
// resolved (created if needed), then the song is filed under the crate
// keyed by its content hash. A hash already filed in a different crate
// is rejected with 409; re-filing in the same crate updates metadata
// and returns the existing song.
func (h *StaffHandler) AddSong(c echo.Context) error {
	crateID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || crateID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid crate id"})
	}
	if _, err := h.CrateRepo.GetByID(c.Request().Context(), crateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "crate not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var body struct {
		Hash   string  `json:"hash"`
		Artist string  `json:"artist"`
		Title  string  `json:"title"`
		Tempo  *uint32 `json:"tempo"`
		Key    *string `json:"key"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Hash) == "" || strings.TrimSpace(body.Artist) == "" || strings.TrimSpace(body.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hash, artist and title are required"})
	}

	artist, err := h.ArtistRepo.Resolve(c.Request().Context(), body.Artist)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not resolve artist"})
	}
	song, err := h.SongRepo.AddToCrate(c.Request().Context(), crateID, body.Hash, artist.ID, strings.TrimSpace(body.Title), body.Tempo, body.Key)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateHash) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "song hash already exists in another crate"})
		}
		if errors.Is(err, repository.ErrConstraint) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "could not store song, please retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store song"})
	}
	return c.JSON(http.StatusCreated, song)
}
