package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/hugelabz/internal/events"
	"github.com/Skotchmaster/hugelabz/internal/models"
	"github.com/Skotchmaster/hugelabz/internal/repo"
	"github.com/Skotchmaster/hugelabz/internal/transport"
	"github.com/Skotchmaster/hugelabz/pkg/logging"
)

// ProductIndex mirrors products into an external search engine.
type ProductIndex interface {
	Put(ctx context.Context, p *models.Product) error
	Remove(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Index  ProductIndex
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	return p, storeErr(err, "product")
}

func (s *CatalogService) GetProducts(ctx context.Context, category string, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, strings.TrimSpace(category), offset, limit)
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *models.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return storeErr(err, "product")
	}

	s.index(ctx, p)
	s.publish(ctx, "product_created", p)
	return nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uuid.UUID, req transport.PatchProductRequest) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, storeErr(err, "product")
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&prod.Name, req.Name)
	set(&prod.Description, req.Description)
	set(&prod.Category, req.Category)
	set(&prod.Image, req.Image)
	set(&prod.Tagline, req.Tagline)
	set(&prod.Usage, req.Usage)
	set(&prod.Ingredients, req.Ingredients)
	set(&prod.Highlight, req.Highlight)
	set(&prod.Goal, req.Goal)
	set(&prod.Servings, req.Servings)
	if req.Benefits != nil {
		prod.Benefits = req.Benefits
	}
	if req.SupplementFacts != nil {
		prod.SupplementFacts = req.SupplementFacts
	}

	if err := validateProduct(prod); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		return nil, storeErr(err, "product")
	}

	s.index(ctx, prod)
	s.publish(ctx, "product_updated", prod)
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return storeErr(err, "product")
	}

	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			logging.FromContext(ctx).With("svc", "catalog.delete").Warn("index_remove_failed", "product_id", id, "error", err)
		}
	}
	events.Emit(ctx, s.Events, events.TopicProducts, id.String(), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return nil
}

// SearchProducts uses the search index when one is configured and falls back
// to a LIKE query otherwise, or when the index is unavailable.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, wrap(ErrValidation, "query is required")
	}

	if s.Index != nil {
		total, items, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			return total, items, nil
		}
		logging.FromContext(ctx).With("svc", "catalog.search").Warn("index_search_failed", "error", err)
	}
	return s.Repo.SearchProducts(ctx, q, offset, limit)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	cat, err := s.Repo.GetCategoryBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	return cat, storeErr(err, "category")
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	cat := &models.Category{}
	if err := applyCategory(cat, req); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateCategory(ctx, cat); err != nil {
		return nil, storeErr(err, "category")
	}
	return cat, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req transport.CategoryRequest) (*models.Category, error) {
	cat, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, storeErr(err, "category")
	}
	if strings.TrimSpace(req.Name) == "" {
		req.Name = cat.Name
	}
	if strings.TrimSpace(req.Slug) == "" {
		req.Slug = cat.Slug
	}
	if req.Image == "" {
		req.Image = cat.Image
	}
	if err := applyCategory(cat, req); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveCategory(ctx, cat); err != nil {
		return nil, storeErr(err, "category")
	}
	return cat, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return storeErr(s.Repo.DeleteCategory(ctx, id), "category")
}

func applyCategory(cat *models.Category, req transport.CategoryRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return wrap(ErrValidation, "name is required")
	}
	slug := Slugify(req.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return wrap(ErrValidation, "slug is empty")
	}

	cat.Name = name
	cat.Slug = slug
	cat.Image = strings.TrimSpace(req.Image)
	return nil
}

func validateProduct(p *models.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Category = strings.TrimSpace(p.Category)

	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.Description == "" {
		missing = append(missing, "description")
	}
	if p.Category == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return wrap(ErrValidation, fmt.Sprintf("%s required", strings.Join(missing, ", ")))
	}
	return nil
}

func (s *CatalogService) index(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Put(ctx, p); err != nil {
		logging.FromContext(ctx).With("svc", "catalog.index").Warn("index_put_failed", "product_id", p.ID, "error", err)
	}
}

func (s *CatalogService) publish(ctx context.Context, kind string, p *models.Product) {
	events.Emit(ctx, s.Events, events.TopicProducts, p.ID.String(), map[string]any{
		"type":      kind,
		"productID": p.ID,
		"name":      p.Name,
		"category":  p.Category,
	})
}
