package cli

import (
	"bytes"
	"net"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		seedFile = ""
		generateCount = 1
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSerialsGenerate(t *testing.T) {
	out, err := run(t, "serials", "generate", "-n", "5", "--env-file", "")
	require.NoError(t, err)

	lines := strings.Fields(out)
	require.Len(t, lines, 5)
	pattern := regexp.MustCompile(`^HL-[A-Z0-9]{8}$`)
	for _, l := range lines {
		assert.Regexp(t, pattern, l)
	}
}

func TestSerialsGenerate_RejectsZero(t *testing.T) {
	_, err := run(t, "serials", "generate", "-n", "0", "--env-file", "")
	require.Error(t, err)
}

func TestMigrateAndSeed(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://"+filepath.Join(t.TempDir(), "hugelabz.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SEED_ADMIN_PASSWORD", "")

	_, err := run(t, "migrate", "--env-file", "")
	require.NoError(t, err)

	out, err := run(t, "seed", "--env-file", "")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 4 categories, 4 products, admin created: false")

	t.Setenv("SEED_ADMIN_PASSWORD", "change-me-now")
	out, err = run(t, "seed", "--env-file", "")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 0 categories, 0 products, admin created: true")

	out, err = run(t, "seed", "--env-file", "")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 0 categories, 0 products, admin created: false")
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := run(t, "migrate", "--env-file", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestServe_ReturnsWhenPortIsTaken(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	port := ln.Addr().(*net.TCPAddr).Port

	t.Setenv("DATABASE_URL", "sqlite://"+filepath.Join(t.TempDir(), "hugelabz.db"))
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", strconv.Itoa(port))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("ES_URL", "")

	done := make(chan error, 1)
	go func() {
		_, err := run(t, "serve", "--env-file", "")
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http server")
	case <-time.After(10 * time.Second):
		t.Fatal("serve kept running after the listener failed")
	}
}
