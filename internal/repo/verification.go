package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/hugelabz/internal/models"
)

// The ledger is append-only; there is no update or delete path.

func (r *GormRepo) CreateVerification(ctx context.Context, rec *models.VerificationRecord) error {
	return r.DB.WithContext(ctx).Create(rec).Error
}

func (r *GormRepo) ListVerifications(ctx context.Context, limit int) ([]models.VerificationRecord, error) {
	items := make([]models.VerificationRecord, 0)
	q := r.DB.WithContext(ctx).Order("verified_at DESC").Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListUserVerifications(ctx context.Context, userID uuid.UUID) ([]models.VerificationRecord, error) {
	items := make([]models.VerificationRecord, 0)
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("verified_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CountVerifications(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.VerificationRecord{}).Count(&n).Error
	return n, err
}
