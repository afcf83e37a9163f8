package packages

import (
	"context"

	"washworks-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	GetPackages(ctx context.Context, filter *PackageFilterInput) ([]*Package, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Package, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetPackages(ctx context.Context, filter *PackageFilterInput) ([]*Package, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetPackages"),
	)
	log.Debug("start get packages")

	pkgs, err := s.repo.GetPackages(ctx, filter)
	if err != nil {
		log.Error("failed to get packages", zap.Error(err))
		return nil, err
	}

	log.Info("success get packages", zap.Int("count", len(pkgs)))
	return pkgs, nil
}

func (s *service) GetByIDs(ctx context.Context, ids []uint) ([]*Package, error) {
	return s.repo.GetByIDs(ctx, ids)
}
