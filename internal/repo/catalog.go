package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/hugelabz/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product := models.Product{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) FindProductByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProducts(ctx context.Context, category string, offset, limit int) (int64, []models.Product, error) {
	scope := func() *gorm.DB {
		q := r.DB.WithContext(ctx).Model(&models.Product{})
		if category != "" {
			q = q.Where("category = ?", category)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := scope().Order("created_at ASC").Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return translate(r.DB.WithContext(ctx).Create(prod).Error)
}

func (r *GormRepo) SaveProduct(ctx context.Context, prod *models.Product) error {
	return translate(r.DB.WithContext(ctx).Save(prod).Error)
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}

// SearchProducts is the database fallback when no search index is configured.
func (r *GormRepo) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	scope := func() *gorm.DB {
		return r.DB.WithContext(ctx).Model(&models.Product{}).
			Where("LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\' OR LOWER(category) LIKE ? ESCAPE '\\'",
				pattern, pattern, pattern)
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := scope().Order("name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
