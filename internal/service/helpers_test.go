package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/hugelabz/internal/events"
	"github.com/Skotchmaster/hugelabz/internal/models"
	"github.com/Skotchmaster/hugelabz/internal/repo"
	"github.com/Skotchmaster/hugelabz/pkg/db"
)

var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	gdb, err := db.Open(context.Background(), "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, repo.Migrate(gdb))
	return &repo.GormRepo{DB: gdb}
}

func newSerialService(t *testing.T) (*SerialService, *events.Recorder) {
	t.Helper()
	rec := &events.Recorder{}
	return &SerialService{
		Repo:   newTestRepo(t),
		Events: rec,
		Now:    func() time.Time { return fixedNow },
	}, rec
}

func mustProduct(t *testing.T, r *repo.GormRepo, name string) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Description: name + " desc", Category: "peptide"}
	require.NoError(t, r.CreateProduct(context.Background(), p))
	return p
}

func countRows(t *testing.T, r *repo.GormRepo, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, r.DB.Model(model).Count(&n).Error)
	return n
}
