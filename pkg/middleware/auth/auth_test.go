package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/hugelabz/pkg/tokens"
)

var secret = []byte("test-jwt-secret")

func newEcho(m *TokenAuth) *echo.Echo {
	e := echo.New()
	whoami := func(c echo.Context) error {
		id, ok := UserID(c)
		if !ok {
			return c.String(http.StatusOK, "anonymous")
		}
		return c.String(http.StatusOK, id.String()+":"+Role(c))
	}
	e.GET("/optional", whoami, m.OptionalAuth)
	e.GET("/private", whoami, m.RequireAuth)
	e.GET("/admin", whoami, m.RequireAdmin)
	return e
}

func issue(t *testing.T, id uuid.UUID, role string) string {
	t.Helper()
	tok, err := tokens.NewAccessToken(secret, id.String(), role, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return tok
}

func do(e *echo.Echo, path string, prepare func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if prepare != nil {
		prepare(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestOptionalAuth(t *testing.T) {
	e := newEcho(NewTokenAuth(secret))
	id := uuid.New()

	rec := do(e, "/optional", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())

	rec = do(e, "/optional", func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+issue(t, id, RoleUser))
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id.String()+":user", rec.Body.String())

	rec = do(e, "/optional", func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer garbage")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	e := newEcho(NewTokenAuth(secret))
	id := uuid.New()

	assert.Equal(t, http.StatusUnauthorized, do(e, "/private", nil).Code)

	rec := do(e, "/private", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: issue(t, id, RoleUser)})
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id.String()+":user", rec.Body.String())

	bad, err := tokens.NewAccessToken(secret, "not-a-uuid", RoleUser, time.Now().Add(time.Hour))
	require.NoError(t, err)
	rec = do(e, "/private", func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+bad)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	e := newEcho(NewTokenAuth(secret))

	rec := do(e, "/admin", func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+issue(t, uuid.New(), RoleUser))
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, "/admin", func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+issue(t, uuid.New(), RoleAdmin))
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}
