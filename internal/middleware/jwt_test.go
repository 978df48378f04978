package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/utils"
)

const testSecret = "test-secret"

func runJWT(t *testing.T, authorization string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/user/points", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	require.NoError(t, JWTAuth(testSecret)(next)(c))
	return rec, c
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec, _ := runJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = runJWT(t, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthInvalidToken(t *testing.T) {
	rec, _ := runJWT(t, "Bearer not-a-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Signed with the wrong secret.
	tok, err := utils.NewAccessToken("other-secret", 7, "alice", 1)
	require.NoError(t, err)
	rec, _ = runJWT(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestJWTAuthValidTokenInjectsClaims(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "alice", 1)
	require.NoError(t, err)

	rec, c := runJWT(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), c.Get("user_id"))
	assert.Equal(t, "alice", c.Get("username"))
}
