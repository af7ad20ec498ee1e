package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func staffClaims(sub string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":  sub,
		"role": "STAFF",
		"exp":  time.Now().Add(time.Minute).Unix(),
		"iat":  time.Now().Unix(),
	}
}

func runStaffAuth(authorization string) (*httptest.ResponseRecorder, echo.Context, bool) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/crates", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	next := func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}
	_ = StaffAuth(testSecret)(next)(c)
	return rec, c, called
}

func TestStaffAuthAcceptsValidToken(t *testing.T) {
	token := signToken(t, testSecret, staffClaims("cred-9"))
	rec, c, called := runStaffAuth("Bearer " + token)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cred-9", c.Get("credential_id"))
}

func TestStaffAuthRejectsMissingHeader(t *testing.T) {
	rec, _, called := runStaffAuth("")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStaffAuthRejectsWrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", staffClaims("cred-9"))
	rec, _, called := runStaffAuth("Bearer " + token)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStaffAuthRejectsExpiredToken(t *testing.T) {
	claims := staffClaims("cred-9")
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	token := signToken(t, testSecret, claims)
	rec, _, called := runStaffAuth("Bearer " + token)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStaffAuthRejectsNonStaffRole(t *testing.T) {
	claims := staffClaims("cred-9")
	claims["role"] = "GUEST"
	token := signToken(t, testSecret, claims)
	rec, _, called := runStaffAuth("Bearer " + token)
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStaffAuthRequiresSubject(t *testing.T) {
	claims := staffClaims("")
	token := signToken(t, testSecret, claims)
	rec, _, called := runStaffAuth("Bearer " + token)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
