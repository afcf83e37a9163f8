package extrawork

import (
	"context"
	"database/sql"
	"fmt"

	"washworks-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetAll(ctx context.Context) ([]*ExtraWork, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*ExtraWork, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAll(ctx context.Context) ([]*ExtraWork, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetAll"),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price, description, is_active, created_at, updated_at
		FROM extra_works
		WHERE is_active = TRUE
		ORDER BY name
	`)
	if err != nil {
		log.Error("failed to query extra works", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanExtraWorks(rows)
}

func (r *repository) GetByIDs(ctx context.Context, ids []uint) ([]*ExtraWork, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := ""
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, name, price, description, is_active, created_at, updated_at
		FROM extra_works
		WHERE id IN (%s)`, placeholders), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExtraWorks(rows)
}

func scanExtraWorks(rows *sql.Rows) ([]*ExtraWork, error) {
	var works []*ExtraWork
	for rows.Next() {
		var w ExtraWork
		if err := rows.Scan(&w.ID, &w.Name, &w.Price, &w.Description, &w.IsActive, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		works = append(works, &w)
	}
	return works, rows.Err()
}
