package packages

import (
	"context"
	"database/sql"
	"fmt"

	"washworks-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetPackages(ctx context.Context, filter *PackageFilterInput) ([]*Package, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Package, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetPackages(ctx context.Context, filter *PackageFilterInput) ([]*Package, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetPackages"),
	)

	whereClause := " WHERE p.is_active = TRUE"
	args := []any{}
	argIndex := 1

	if filter != nil {
		if filter.Name != nil && *filter.Name != "" {
			whereClause += fmt.Sprintf(" AND p.name ILIKE $%d", argIndex)
			args = append(args, "%"+*filter.Name+"%")
			argIndex++
		}
		if filter.ServiceType != nil && *filter.ServiceType != "" {
			whereClause += fmt.Sprintf(" AND p.service_type = $%d", argIndex)
			args = append(args, *filter.ServiceType)
			argIndex++
		}
	}

	query := `
		SELECT p.id, p.name, p.service_type, p.description, p.is_active, p.created_at, p.updated_at
		FROM packages p` + whereClause + `
		ORDER BY p.service_type, p.name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query packages", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var pkgs []*Package
	byID := map[uint]*Package{}
	var ids []uint

	for rows.Next() {
		var p Package
		if err := rows.Scan(&p.ID, &p.Name, &p.ServiceType, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pkgs = append(pkgs, &p)
		byID[p.ID] = &p
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return pkgs, nil
	}

	if err := r.attachPrices(ctx, byID, ids); err != nil {
		log.Error("failed to attach package prices", zap.Error(err))
		return nil, err
	}

	return pkgs, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []uint) ([]*Package, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args := inClause(`
		SELECT p.id, p.name, p.service_type, p.description, p.is_active, p.created_at, p.updated_at
		FROM packages p
		WHERE p.id IN (%s)`, ids)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pkgs []*Package
	byID := map[uint]*Package{}

	for rows.Next() {
		var p Package
		if err := rows.Scan(&p.ID, &p.Name, &p.ServiceType, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pkgs = append(pkgs, &p)
		byID[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(pkgs) == 0 {
		return pkgs, nil
	}

	if err := r.attachPrices(ctx, byID, ids); err != nil {
		return nil, err
	}

	return pkgs, nil
}

func (r *repository) attachPrices(ctx context.Context, byID map[uint]*Package, ids []uint) error {
	query, args := inClause(`
		SELECT pp.id, pp.package_id, pp.branch_id, pp.vehicle_type, pp.price, pp.is_active
		FROM package_prices pp
		WHERE pp.package_id IN (%s)`, ids)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var pr PackagePrice
		if err := rows.Scan(&pr.ID, &pr.PackageID, &pr.BranchID, &pr.VehicleType, &pr.Price, &pr.IsActive); err != nil {
			return err
		}
		if pkg, ok := byID[pr.PackageID]; ok {
			pkg.Prices = append(pkg.Prices, &pr)
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
