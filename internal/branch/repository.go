package branch

import (
	"context"
	"database/sql"

	"washworks-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetAll(ctx context.Context) ([]*Branch, error)
	GetByID(ctx context.Context, id uint) (*Branch, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAll(ctx context.Context) ([]*Branch, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetAll"),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, address, phone, is_active, created_at, updated_at
		FROM branches
		WHERE is_active = TRUE
		ORDER BY name
	`)
	if err != nil {
		log.Error("failed to query branches", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var branches []*Branch
	for rows.Next() {
		var b Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.Phone, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		branches = append(branches, &b)
	}

	return branches, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Branch, error) {
	var b Branch
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, address, phone, is_active, created_at, updated_at
		FROM branches
		WHERE id = $1
	`, id).Scan(&b.ID, &b.Name, &b.Address, &b.Phone, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrBranchNotFound
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}
