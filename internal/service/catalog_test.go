package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/hugelabz/internal/events"
	"github.com/Skotchmaster/hugelabz/internal/models"
	"github.com/Skotchmaster/hugelabz/internal/transport"
)

type fakeIndex struct {
	docs      map[uuid.UUID]models.Product
	searchErr error
	searched  int
}

func (f *fakeIndex) Put(_ context.Context, p *models.Product) error {
	f.docs[p.ID] = *p
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id uuid.UUID) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, int, int) (int64, []models.Product, error) {
	f.searched++
	if f.searchErr != nil {
		return 0, nil, f.searchErr
	}
	out := make([]models.Product, 0, len(f.docs))
	for _, p := range f.docs {
		out = append(out, p)
	}
	return int64(len(out)), out, nil
}

func newCatalog(t *testing.T, withIndex bool) (*CatalogService, *events.Recorder, *fakeIndex) {
	t.Helper()
	rec := &events.Recorder{}
	svc := &CatalogService{Repo: newTestRepo(t), Events: rec}
	var ix *fakeIndex
	if withIndex {
		ix = &fakeIndex{docs: map[uuid.UUID]models.Product{}}
		svc.Index = ix
	}
	return svc, rec, ix
}

func TestCatalog_CreateProductValidation(t *testing.T) {
	svc, rec, _ := newCatalog(t, false)

	err := svc.CreateProduct(context.Background(), &models.Product{Name: "BPC-157"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "description")
	assert.Contains(t, err.Error(), "category")
	assert.Empty(t, rec.Messages)
}

func TestCatalog_ProductLifecycle(t *testing.T) {
	svc, rec, ix := newCatalog(t, true)
	ctx := context.Background()

	p := &models.Product{Name: " BPC-157 ", Description: "Body protection compound", Category: "peptide"}
	require.NoError(t, svc.CreateProduct(ctx, p))
	assert.Equal(t, "BPC-157", p.Name)
	assert.Contains(t, ix.docs, p.ID)

	newName := "BPC-157 Arginate"
	updated, err := svc.PatchProduct(ctx, p.ID, transport.PatchProductRequest{
		Name:     &newName,
		Benefits: []string{"recovery"},
	})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, "Body protection compound", updated.Description)
	assert.Equal(t, []string{"recovery"}, updated.Benefits)
	assert.Equal(t, newName, ix.docs[p.ID].Name)

	blank := ""
	_, err = svc.PatchProduct(ctx, p.ID, transport.PatchProductRequest{Category: &blank})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	assert.NotContains(t, ix.docs, p.ID)
	assert.ErrorIs(t, svc.DeleteProduct(ctx, p.ID), ErrNotFound)

	_, err = svc.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"product_created", "product_updated", "product_deleted"}, rec.Types())
}

func TestCatalog_GetProductsFiltersByCategory(t *testing.T) {
	svc, _, _ := newCatalog(t, false)
	ctx := context.Background()
	for _, p := range []models.Product{
		{Name: "BPC-157", Description: "d", Category: "peptide"},
		{Name: "TB-500", Description: "d", Category: "peptide"},
		{Name: "Semaglutide", Description: "d", Category: "fat-loss"},
	} {
		p := p
		require.NoError(t, svc.CreateProduct(ctx, &p))
	}

	total, items, err := svc.GetProducts(ctx, "fat-loss", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Semaglutide", items[0].Name)
}

func TestCatalog_SearchFallsBackToDatabase(t *testing.T) {
	svc, _, ix := newCatalog(t, true)
	ctx := context.Background()
	require.NoError(t, svc.CreateProduct(ctx, &models.Product{Name: "Semaglutide", Description: "GLP-1", Category: "fat-loss"}))

	ix.searchErr = errors.New("cluster red")
	total, items, err := svc.SearchProducts(ctx, "glp", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, ix.searched)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Semaglutide", items[0].Name)

	_, _, err = svc.SearchProducts(ctx, "  ", 0, 10)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalog_SearchWithoutIndex(t *testing.T) {
	svc, _, _ := newCatalog(t, false)
	ctx := context.Background()
	require.NoError(t, svc.CreateProduct(ctx, &models.Product{Name: "TB-500", Description: "Thymosin beta-4", Category: "peptide"}))

	total, _, err := svc.SearchProducts(ctx, "THYMOSIN", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestCatalog_Categories(t *testing.T) {
	svc, _, _ := newCatalog(t, false)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, transport.CategoryRequest{Name: "Anti Obesity / Fat Loss"})
	require.NoError(t, err)
	assert.Equal(t, "anti-obesity-fat-loss", cat.Slug)

	explicit, err := svc.CreateCategory(ctx, transport.CategoryRequest{Name: "Fat Loss", Slug: "fat-loss"})
	require.NoError(t, err)
	assert.Equal(t, "fat-loss", explicit.Slug)

	_, err = svc.CreateCategory(ctx, transport.CategoryRequest{Name: "anti obesity fat loss"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.CreateCategory(ctx, transport.CategoryRequest{Name: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	got, err := svc.GetCategoryBySlug(ctx, "FAT-LOSS")
	require.NoError(t, err)
	assert.Equal(t, explicit.ID, got.ID)

	updated, err := svc.UpdateCategory(ctx, explicit.ID, transport.CategoryRequest{Image: "/img/fat.png"})
	require.NoError(t, err)
	assert.Equal(t, "Fat Loss", updated.Name)
	assert.Equal(t, "fat-loss", updated.Slug)
	assert.Equal(t, "/img/fat.png", updated.Image)

	_, err = svc.UpdateCategory(ctx, explicit.ID, transport.CategoryRequest{Slug: cat.Slug})
	assert.ErrorIs(t, err, ErrConflict)

	list, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, svc.DeleteCategory(ctx, cat.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, cat.ID), ErrNotFound)
	_, err = svc.GetCategoryBySlug(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
