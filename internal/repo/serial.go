package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/hugelabz/internal/models"
)

const keyChunk = 500

// FindSerialByCodeKey does an exact match on the lowercased code.
func (r *GormRepo) FindSerialByCodeKey(ctx context.Context, key string) (*models.SerialNumber, error) {
	var serial models.SerialNumber
	if err := r.DB.WithContext(ctx).Where("code_key = ?", key).First(&serial).Error; err != nil {
		return nil, err
	}
	return &serial, nil
}

func (r *GormRepo) ListSerials(ctx context.Context) ([]models.SerialNumber, error) {
	items := make([]models.SerialNumber, 0)
	err := r.DB.WithContext(ctx).
		Preload("Product").
		Order("created_at DESC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateSerial(ctx context.Context, serial *models.SerialNumber) error {
	return translate(r.DB.WithContext(ctx).Omit(clause.Associations).Create(serial).Error)
}

// InsertSerialsSkippingDuplicates inserts the batch and silently drops rows
// whose code key is already taken. It returns the number of rows written.
func (r *GormRepo) InsertSerialsSkippingDuplicates(ctx context.Context, serials []models.SerialNumber) (int64, error) {
	if len(serials) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code_key"}}, DoNothing: true}).
		CreateInBatches(serials, keyChunk)
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *GormRepo) DeleteSerial(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.SerialNumber{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkSerialVerified flips the verification columns only. verified_by is
// left untouched when by is nil.
func (r *GormRepo) MarkSerialVerified(ctx context.Context, id uuid.UUID, at time.Time, by *uuid.UUID) error {
	fields := map[string]any{
		"is_verified": true,
		"verified_at": at,
	}
	if by != nil {
		fields["verified_by"] = *by
	}

	res := r.DB.WithContext(ctx).Model(&models.SerialNumber{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ExistingCodeKeys reports which of keys are already registered.
func (r *GormRepo) ExistingCodeKeys(ctx context.Context, keys []string) (map[string]struct{}, error) {
	found := make(map[string]struct{}, len(keys))
	for start := 0; start < len(keys); start += keyChunk {
		end := min(start+keyChunk, len(keys))

		var chunk []string
		err := r.DB.WithContext(ctx).
			Model(&models.SerialNumber{}).
			Where("code_key IN ?", keys[start:end]).
			Pluck("code_key", &chunk).Error
		if err != nil {
			return nil, err
		}
		for _, k := range chunk {
			found[k] = struct{}{}
		}
	}
	return found, nil
}

func (r *GormRepo) CountSerials(ctx context.Context) (total, verified int64, err error) {
	if err = r.DB.WithContext(ctx).Model(&models.SerialNumber{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = r.DB.WithContext(ctx).Model(&models.SerialNumber{}).Where("is_verified = ?", true).Count(&verified).Error; err != nil {
		return 0, 0, err
	}
	return total, verified, nil
}
