package extrawork

import (
	"context"

	"washworks-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	GetExtraWorks(ctx context.Context) ([]*ExtraWork, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*ExtraWork, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetExtraWorks(ctx context.Context) ([]*ExtraWork, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetExtraWorks"),
	)

	works, err := s.repo.GetAll(ctx)
	if err != nil {
		log.Error("failed to get extra works", zap.Error(err))
		return nil, err
	}

	return works, nil
}

func (s *service) GetByIDs(ctx context.Context, ids []uint) ([]*ExtraWork, error) {
	return s.repo.GetByIDs(ctx, ids)
}
