package product

import (
	"context"

	"washworks-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	GetProducts(ctx context.Context) ([]*Product, error)
	GetProduct(ctx context.Context, id uint) (*Product, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Product, error)
	SetStock(ctx context.Context, productID, branchID uint, qty int) error
	// DecrementStock reduces a branch stock entry by qty, floored at zero.
	DecrementStock(ctx context.Context, productID, branchID uint, qty int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProducts(ctx context.Context) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetProducts"),
	)

	products, err := s.repo.GetAll(ctx)
	if err != nil {
		log.Error("failed to get products", zap.Error(err))
		return nil, err
	}

	return products, nil
}

func (s *service) GetProduct(ctx context.Context, id uint) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByIDs(ctx context.Context, ids []uint) ([]*Product, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *service) DecrementStock(ctx context.Context, productID, branchID uint, qty int) error {
	return s.repo.DecrementStock(ctx, productID, branchID, qty)
}

func (s *service) SetStock(ctx context.Context, productID, branchID uint, qty int) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SetStock"),
		zap.Uint("product_id", productID),
		zap.Uint("branch_id", branchID),
		zap.Int("qty", qty),
	)

	if err := s.repo.SetStock(ctx, productID, branchID, qty); err != nil {
		log.Error("failed to set stock", zap.Error(err))
		return err
	}

	log.Info("stock updated")
	return nil
}
