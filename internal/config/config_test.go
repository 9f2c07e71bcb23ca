package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ReadsEnvFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("SERVER_PORT", "")
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("TOKEN_TTL")
	os.Unsetenv("SERVER_PORT")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DATABASE_URL=sqlite://test.db\nJWT_SECRET=s3cret\nTOKEN_TTL=2h\nSERVER_PORT=9090\n"), 0o600))

	cfg := Load(path)
	assert.Equal(t, "sqlite://test.db", cfg.DatabaseURL)
	assert.Equal(t, []byte("s3cret"), cfg.JWTAccessSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 9090, cfg.ServerPort)
	require.NoError(t, RequireServe(cfg))
}

func TestLoad_EnvironmentWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DATABASE_URL=sqlite://from-file.db\n"), 0o600))

	cfg := Load(path)
	assert.Equal(t, "postgres://from-env", cfg.DatabaseURL)
}

func TestRequireServe_ReportsMissing(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg := Load("")
	err := RequireServe(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Error(t, RequireDatabase(cfg))
}
