package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/khaisazumma/rebooku-sub000/internal/config"
	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "s3cret"

func runAuth(t *testing.T, header string) (model.Actor, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var actor model.Actor
	err := AuthMiddleware(secret)(func(c echo.Context) error {
		actor = ActorFrom(c)
		return nil
	})(c)
	return actor, err
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	return httpErr.Code
}

func TestAuthMiddleware(t *testing.T) {
	userToken, err := IssueToken(secret, time.Hour, "buyer-1", model.RoleUser)
	require.NoError(t, err)
	adminToken, err := IssueToken(secret, time.Hour, "admin-1", model.RoleAdmin)
	require.NoError(t, err)

	actor, err := runAuth(t, "Bearer "+userToken)
	require.NoError(t, err)
	assert.Equal(t, model.Actor{UserID: "buyer-1", Role: model.RoleUser}, actor)

	actor, err = runAuth(t, "Bearer "+adminToken)
	require.NoError(t, err)
	assert.True(t, actor.IsAdmin())
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	expired, err := IssueToken(secret, -time.Minute, "buyer-1", model.RoleUser)
	require.NoError(t, err)
	wrongKey, err := IssueToken("other", time.Hour, "buyer-1", model.RoleUser)
	require.NoError(t, err)
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role:             model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "admin-1"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"not bearer", "Basic abc"},
		{"empty bearer", "Bearer "},
		{"garbage", "Bearer abc.def.ghi"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
		{"none alg", "Bearer " + noneAlg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runAuth(t, tt.header)
			assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
		})
	}
}

func TestAuthMiddleware_UnknownRoleIsUser(t *testing.T) {
	tok, err := IssueToken(secret, time.Hour, "buyer-1", model.Role("superuser"))
	require.NoError(t, err)

	actor, err := runAuth(t, "Bearer "+tok)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, actor.Role)
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()
	handler := RequireAdmin()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(userIDKey, "buyer-1")
	c.Set(roleKey, model.RoleUser)
	assert.Equal(t, http.StatusForbidden, statusOf(t, handler(c)))

	rec := httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Set(userIDKey, "admin-1")
	c.Set(roleKey, model.RoleAdmin)
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIssueConfiguredToken_UsesTTL(t *testing.T) {
	tok, err := IssueConfiguredToken(config.Auth{JWTSecret: secret, TokenTTL: 2 * time.Hour}, "seller-1", model.RoleUser)
	require.NoError(t, err)

	var claims Claims
	_, err = jwt.ParseWithClaims(tok, &claims, func(*jwt.Token) (interface{}, error) { return []byte(secret), nil })
	require.NoError(t, err)
	assert.Equal(t, "seller-1", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), claims.ExpiresAt.Time, time.Minute)

	actor, err := runAuth(t, "Bearer "+tok)
	require.NoError(t, err)
	assert.Equal(t, "seller-1", actor.UserID)
}
