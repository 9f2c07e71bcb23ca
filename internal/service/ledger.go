package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/hugelabz/internal/models"
	"github.com/Skotchmaster/hugelabz/internal/repo"
	"github.com/Skotchmaster/hugelabz/internal/transport"
)

const recentVerifications = 5

type LedgerService struct {
	Repo *repo.GormRepo
}

func (s *LedgerService) ListVerifications(ctx context.Context, limit int) ([]models.VerificationRecord, error) {
	return s.Repo.ListVerifications(ctx, limit)
}

func (s *LedgerService) UserVerifications(ctx context.Context, userID uuid.UUID) ([]models.VerificationRecord, error) {
	return s.Repo.ListUserVerifications(ctx, userID)
}

func (s *LedgerService) Dashboard(ctx context.Context) (*transport.DashboardResponse, error) {
	var (
		out transport.DashboardResponse
		err error
	)
	if out.Products, err = s.Repo.CountProducts(ctx); err != nil {
		return nil, err
	}
	if out.Categories, err = s.Repo.CountCategories(ctx); err != nil {
		return nil, err
	}
	if out.Serials, out.VerifiedSerials, err = s.Repo.CountSerials(ctx); err != nil {
		return nil, err
	}
	if out.Verifications, err = s.Repo.CountVerifications(ctx); err != nil {
		return nil, err
	}
	if out.RecentVerifications, err = s.Repo.ListVerifications(ctx, recentVerifications); err != nil {
		return nil, err
	}
	return &out, nil
}
