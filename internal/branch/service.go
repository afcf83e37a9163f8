package branch

import (
	"context"

	"washworks-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	GetBranches(ctx context.Context) ([]*Branch, error)
	GetBranch(ctx context.Context, id uint) (*Branch, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetBranches(ctx context.Context) ([]*Branch, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetBranches"),
	)

	branches, err := s.repo.GetAll(ctx)
	if err != nil {
		log.Error("failed to get branches", zap.Error(err))
		return nil, err
	}

	return branches, nil
}

func (s *service) GetBranch(ctx context.Context, id uint) (*Branch, error) {
	return s.repo.GetByID(ctx, id)
}
