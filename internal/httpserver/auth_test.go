package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/hugelabz/internal/models"
	"github.com/Skotchmaster/hugelabz/internal/transport"
	"github.com/Skotchmaster/hugelabz/pkg/tokens"
)

func TestAuth_RegisterLoginMe(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSONRequest(http.MethodPost, "/api/auth/register", map[string]string{
		"email": "buyer@example.com", "password": "pw", "name": "Buyer",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	assert.Equal(t, "buyer@example.com", created["email"])
	assert.NotContains(t, created, "passwordHash")

	rec = env.doJSONRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "buyer@example.com", "password": "pw",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[transport.LoginResponse](t, rec)
	require.NotEmpty(t, login.Token)

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == tokens.AccessCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, login.Token, cookie.Value)

	rec = env.doJSONRequest(http.MethodGet, "/api/auth/me", nil, login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[models.User](t, rec)
	assert.Equal(t, "Buyer", me.Name)

	rec = env.doJSONRequest(http.MethodPost, "/api/auth/logout", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := rec.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.Equal(t, "", cleared[0].Value)
}

func TestAuth_DuplicateRegisterIs400(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]string{"email": "dup@example.com", "password": "pw"}

	rec := env.doJSONRequest(http.MethodPost, "/api/auth/register", body, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSONRequest(http.MethodPost, "/api/auth/register", body, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", decode[map[string]string](t, rec)["error"])
}

func TestAuth_BadLoginIs401(t *testing.T) {
	env := newTestEnv(t)
	rec := env.doJSONRequest(http.MethodPost, "/api/auth/login", map[string]string{"email": "x@y.z", "password": "pw"}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decode[map[string]string](t, rec)["error"])
}

func TestAuth_MeRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	rec := env.doJSONRequest(http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
