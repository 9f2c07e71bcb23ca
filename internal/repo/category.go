package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/hugelabz/internal/models"
)

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	items := make([]models.Category, 0)
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, cat *models.Category) error {
	return translate(r.DB.WithContext(ctx).Create(cat).Error)
}

func (r *GormRepo) SaveCategory(ctx context.Context, cat *models.Category) error {
	return translate(r.DB.WithContext(ctx).Save(cat).Error)
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Category{}).Count(&n).Error
	return n, err
}
