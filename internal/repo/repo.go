package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Skotchmaster/hugelabz/internal/models"
)

var (
	ErrDuplicate = errors.New("duplicate key")
	ErrNotFound  = gorm.ErrRecordNotFound
)

type GormRepo struct {
	DB *gorm.DB
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// Transaction runs fn against a repo bound to a single database transaction.
// Any error returned by fn rolls everything back.
func (r *GormRepo) Transaction(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return errors.Join(ErrDuplicate, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
