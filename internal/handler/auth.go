package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/plzfm/song-request-kiosk/internal/config"
	"github.com/plzfm/song-request-kiosk/internal/repository"
	"github.com/plzfm/song-request-kiosk/internal/utils"
)

// AuthHandler bundles dependencies for the credential endpoints. Staff
// hold API keys (credential ID + secret); a key is exchanged for a
// short-lived access token which the remaining staff endpoints require.
type AuthHandler struct {
	Cfg         config.Config
	Credentials *repository.CredentialRepo
}

// NewAuthHandler constructs an AuthHandler with the provided repository.
func NewAuthHandler(cfg config.Config, creds *repository.CredentialRepo) *AuthHandler {
	if creds == nil {
		panic("nil repository passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Credentials: creds}
}

type tokenReq struct {
	CredentialID string `json:"credential_id"`
	Secret       string `json:"secret"`
}

// CreateKey handles POST /v1/auth/keys. It mints a new staff API key
// and returns the credential ID together with the raw secret. The
// secret is shown exactly once; only its bcrypt hash is stored.
func (h *AuthHandler) CreateKey(c echo.Context) error {
	secret, err := utils.NewAPISecret()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not generate secret"})
	}
	hash, err := utils.HashSecret(secret, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not hash secret"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	cred, err := h.Credentials.Create(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store credential"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"credential_id": cred.ID,
		"secret":        secret,
	})
}

// IssueToken handles POST /v1/auth/token. It verifies a credential and
// returns a short-lived STAFF access token. Unknown, revoked and
// wrong-secret credentials all produce the same 401 so callers learn
// nothing about which part failed.
func (h *AuthHandler) IssueToken(c echo.Context) error {
	var req tokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.CredentialID = strings.TrimSpace(req.CredentialID)
	if req.CredentialID == "" || req.Secret == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "credential_id/secret required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cred, err := h.Credentials.GetActive(ctx, req.CredentialID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifySecret(cred.SecretHash, req.Secret) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, cred.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token":   access.Token,
		"expires": access.Exp,
	})
}

// RevokeKey handles DELETE /v1/auth/keys/:id. The credential is
// deactivated, not deleted, so existing audit trails keep their
// reference.
func (h *AuthHandler) RevokeKey(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid credential id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Credentials.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "credential not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
