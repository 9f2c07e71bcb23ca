package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/hugelabz/internal/models"
)

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	return translate(r.DB.WithContext(ctx).Create(user).Error)
}
