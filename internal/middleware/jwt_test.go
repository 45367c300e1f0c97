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

	"github.com/iliyamo/trip-ticket-log/internal/utils"
)

const testSecret = "s3cret"

func authRequest(t *testing.T, header string, mws ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, "/api/tickets/1", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	h := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	require.NoError(t, h(c))
	return rec, c
}

func signed(t *testing.T, claims jwt.MapClaims, method jwt.SigningMethod, key interface{}) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return "Bearer " + s
}

func TestJWTAuthAcceptsSupervisor(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "lead@example.com", RoleSupervisor, time.Hour)
	require.NoError(t, err)

	rec, c := authRequest(t, "Bearer "+tok.Token, JWTAuth(testSecret), RequireRole(RoleSupervisor))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "lead@example.com", c.Get(CtxSubject))
}

func TestJWTAuthRejects(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	cases := map[string]string{
		"missing":     "",
		"not bearer":  "Basic Zm9vOmJhcg==",
		"garbage":     "Bearer not-a-jwt",
		"wrong key":   signed(t, jwt.MapClaims{"sub": "x", "role": RoleSupervisor, "exp": exp}, jwt.SigningMethodHS256, []byte("other")),
		"expired":     signed(t, jwt.MapClaims{"sub": "x", "role": RoleSupervisor, "exp": time.Now().Add(-time.Minute).Unix()}, jwt.SigningMethodHS256, []byte(testSecret)),
		"no expiry":   signed(t, jwt.MapClaims{"sub": "x", "role": RoleSupervisor}, jwt.SigningMethodHS256, []byte(testSecret)),
		"wrong alg":   signed(t, jwt.MapClaims{"sub": "x", "role": RoleSupervisor, "exp": exp}, jwt.SigningMethodHS512, []byte(testSecret)),
		"unsigned":    signed(t, jwt.MapClaims{"sub": "x", "role": RoleSupervisor, "exp": exp}, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType),
	}
	for name, header := range cases {
		rec, _ := authRequest(t, header, JWTAuth(testSecret))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}
}

func TestRequireRole(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "agent@example.com", "AGENT", time.Hour)
	require.NoError(t, err)

	rec, _ := authRequest(t, "Bearer "+tok.Token, JWTAuth(testSecret), RequireRole(RoleSupervisor))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = authRequest(t, "", RequireRole(RoleSupervisor))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestNewAccessTokenValidatesInput(t *testing.T) {
	_, err := utils.NewAccessToken("", "x", RoleSupervisor, time.Hour)
	assert.Error(t, err)
	_, err = utils.NewAccessToken(testSecret, "x", RoleSupervisor, 0)
	assert.Error(t, err)
}
