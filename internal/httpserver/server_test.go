package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/hugelabz/internal/events"
	"github.com/Skotchmaster/hugelabz/internal/models"
	"github.com/Skotchmaster/hugelabz/internal/repo"
	"github.com/Skotchmaster/hugelabz/internal/service"
	"github.com/Skotchmaster/hugelabz/pkg/db"
	"github.com/Skotchmaster/hugelabz/pkg/tokens"
)

var testSecret = []byte("test-jwt-secret")

type testEnv struct {
	e      *echo.Echo
	repo   *repo.GormRepo
	events *events.Recorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.Open(context.Background(), "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, repo.Migrate(gdb))

	r := &repo.GormRepo{DB: gdb}
	rec := &events.Recorder{}

	e := echo.New()
	Register(e, &Deps{
		DB:          gdb,
		JWTSecret:   testSecret,
		CatalogHTTP: &CatalogHTTP{Svc: &service.CatalogService{Repo: r, Events: rec}},
		AuthHTTP: &AuthHTTP{Svc: &service.AuthService{
			Repo:      r,
			Events:    rec,
			JWTSecret: testSecret,
		}},
		SerialHTTP: &SerialHTTP{Svc: &service.SerialService{Repo: r, Events: rec}},
		LedgerHTTP: &LedgerHTTP{Svc: &service.LedgerService{Repo: r}},
	})

	return &testEnv{e: e, repo: r, events: rec}
}

func (env *testEnv) tokenFor(t *testing.T, id uuid.UUID, role string) string {
	t.Helper()
	tok, err := tokens.NewAccessToken(testSecret, id.String(), role, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return tok
}

func (env *testEnv) adminToken(t *testing.T) string {
	return env.tokenFor(t, uuid.New(), models.RoleAdmin)
}

func (env *testEnv) doJSONRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (env *testEnv) createProduct(t *testing.T, name string) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Description: name + " desc", Category: "peptide"}
	require.NoError(t, env.repo.CreateProduct(context.Background(), p))
	return p
}
