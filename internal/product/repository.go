package product

import (
	"context"
	"database/sql"
	"fmt"

	"washworks-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetAll(ctx context.Context) ([]*Product, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Product, error)
	// DecrementStock reduces a branch stock entry by qty, floored at zero.
	DecrementStock(ctx context.Context, productID, branchID uint, qty int) error
	SetStock(ctx context.Context, productID, branchID uint, qty int) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAll(ctx context.Context) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetAll"),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price, description, is_active, created_at, updated_at
		FROM products
		WHERE is_active = TRUE
		ORDER BY name
	`)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	byID := map[uint]*Product{}
	var ids []uint

	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, &p)
		byID[p.ID] = &p
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return products, nil
	}

	if err := r.attachStocks(ctx, byID, ids); err != nil {
		log.Error("failed to attach branch stocks", zap.Error(err))
		return nil, err
	}

	return products, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, price, description, is_active, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachStocks(ctx, map[uint]*Product{p.ID: &p}, []uint{p.ID}); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []uint) ([]*Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args := inClause(`
		SELECT id, name, price, description, is_active, created_at, updated_at
		FROM products
		WHERE id IN (%s)`, ids)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	byID := map[uint]*Product{}

	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, &p)
		byID[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(products) == 0 {
		return products, nil
	}

	if err := r.attachStocks(ctx, byID, ids); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *repository) DecrementStock(ctx context.Context, productID, branchID uint, qty int) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "DecrementStock"),
		zap.Uint("product_id", productID),
		zap.Uint("branch_id", branchID),
		zap.Int("qty", qty),
	)

	// Atomic floor-at-zero decrement; concurrent completions cannot drive
	// the stock negative or lose the floor.
	res, err := r.db.ExecContext(ctx, `
		UPDATE branch_stocks
		SET quantity = GREATEST(quantity - $1, 0)
		WHERE product_id = $2 AND branch_id = $3
	`, qty, productID, branchID)
	if err != nil {
		log.Error("failed to decrement stock", zap.Error(err))
		return err
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		log.Warn("no stock entry for product at branch")
	}

	return nil
}

func (r *repository) SetStock(ctx context.Context, productID, branchID uint, qty int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO branch_stocks (product_id, branch_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id, branch_id) DO UPDATE SET quantity = EXCLUDED.quantity
	`, productID, branchID, qty)
	return err
}

func (r *repository) attachStocks(ctx context.Context, byID map[uint]*Product, ids []uint) error {
	query, args := inClause(`
		SELECT id, product_id, branch_id, quantity
		FROM branch_stocks
		WHERE product_id IN (%s)`, ids)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var s BranchStock
		if err := rows.Scan(&s.ID, &s.ProductID, &s.BranchID, &s.Quantity); err != nil {
			return err
		}
		if p, ok := byID[s.ProductID]; ok {
			p.Stocks = append(p.Stocks, &s)
		}
	}

	return rows.Err()
}

func inClause(format string, ids []uint) (string, []any) {
	placeholders := ""
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}
	return fmt.Sprintf(format, placeholders), args
}
