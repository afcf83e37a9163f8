package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"washworks-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	CreateOrder(ctx context.Context, o *Order) (*Order, error)
	FetchOrders(ctx context.Context, filter *OrderFilterInput, limit, page *int) ([]*Order, int, error)
	GetOrderDetail(ctx context.Context, orderID uint) (*Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status OrderStatus) error
	UpdateDetailsTx(ctx context.Context, o *Order) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// CreateOrder persists a composed order and its lines in one transaction.
func (r *repository) CreateOrder(ctx context.Context, o *Order) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrder"),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			customer_name, customer_email, customer_phone,
			branch_id, vehicle_type, status, payment_status, total_amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, ordered_at, created_at, updated_at
	`,
		o.CustomerName,
		o.CustomerEmail,
		o.CustomerPhone,
		o.BranchID,
		o.VehicleType,
		o.Status,
		o.PaymentStatus,
		o.TotalAmount,
	).Scan(&o.ID, &o.OrderedAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return nil, err
	}

	if err := insertLinesTx(ctx, tx, o); err != nil {
		log.Error("failed to insert order lines", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("order created",
		zap.Uint("order_id", o.ID),
		zap.Float64("total", o.TotalAmount),
	)

	return o, nil
}

func insertLinesTx(ctx context.Context, tx *sql.Tx, o *Order) error {
	for _, l := range o.ServiceLines {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO order_service_lines (
				order_id, package_id, package_name, service_type,
				vehicle_type, vehicle_number, arrival_date, arrival_time, unit_price
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		`,
			o.ID, l.PackageID, l.PackageName, l.ServiceType,
			l.VehicleType, l.VehicleNumber, l.ArrivalDate, l.ArrivalTime, l.UnitPrice,
		).Scan(&l.ID)
		if err != nil {
			return err
		}
		l.OrderID = o.ID
	}

	for _, l := range o.ProductLines {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO order_product_lines (
				order_id, product_id, product_name, quantity, unit_price
			) VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`,
			o.ID, l.ProductID, l.ProductName, l.Quantity, l.UnitPrice,
		).Scan(&l.ID)
		if err != nil {
			return err
		}
		l.OrderID = o.ID
	}

	for _, l := range o.ExtraWorkLines {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO order_extra_work_lines (
				order_id, extra_work_id, name, price
			) VALUES ($1, $2, $3, $4)
			RETURNING id
		`,
			o.ID, l.ExtraWorkID, l.Name, l.Price,
		).Scan(&l.ID)
		if err != nil {
			return err
		}
		l.OrderID = o.ID
	}

	return nil
}

// FetchOrders lists orders with optional filtering and pagination. The
// returned count is the total matching rows, ignoring pagination.
func (r *repository) FetchOrders(
	ctx context.Context,
	filter *OrderFilterInput,
	limit, page *int,
) ([]*Order, int, error) {

	finalLimit := 20
	finalPage := 1

	if limit != nil && *limit > 0 {
		finalLimit = *limit
	}
	if page != nil && *page > 0 {
		finalPage = *page
	}
	if finalLimit > 100 {
		finalLimit = 100
	}

	offset := (finalPage - 1) * finalLimit

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "FetchOrders"),
		zap.Int("limit", finalLimit),
		zap.Int("page", finalPage),
	)

	log.Debug("start fetch orders")

	where := " WHERE 1=1"
	args := []any{}
	argIndex := 1

	if filter != nil {
		if filter.Status != nil && *filter.Status != "" {
			where += fmt.Sprintf(" AND o.status = $%d", argIndex)
			args = append(args, *filter.Status)
			argIndex++
		}

		if filter.BranchID != nil && *filter.BranchID != 0 {
			where += fmt.Sprintf(" AND o.branch_id = $%d", argIndex)
			args = append(args, *filter.BranchID)
			argIndex++
		}

		if filter.Search != nil && *filter.Search != "" {
			where += fmt.Sprintf(
				" AND (o.id::text ILIKE $%d OR o.customer_name ILIKE $%d OR o.customer_phone ILIKE $%d)",
				argIndex, argIndex, argIndex,
			)
			args = append(args, "%"+*filter.Search+"%")
			argIndex++
		}

		if filter.DateFrom != nil {
			where += fmt.Sprintf(" AND o.ordered_at >= $%d", argIndex)
			args = append(args, *filter.DateFrom)
			argIndex++
		}

		if filter.DateTo != nil {
			where += fmt.Sprintf(" AND o.ordered_at <= $%d", argIndex)
			args = append(args, *filter.DateTo)
			argIndex++
		}
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM orders o" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count orders", zap.Error(err))
		return nil, 0, err
	}

	query := `
		SELECT
			o.id,
			o.customer_name,
			o.customer_email,
			o.customer_phone,
			o.branch_id,
			o.vehicle_type,
			o.status,
			o.payment_status,
			o.total_amount,
			o.ordered_at,
			o.started_at,
			o.completed_at,
			o.created_at,
			o.updated_at
		FROM orders o
	` + where

	query += " ORDER BY o.ordered_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, finalLimit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var orders []*Order

	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID,
			&o.CustomerName,
			&o.CustomerEmail,
			&o.CustomerPhone,
			&o.BranchID,
			&o.VehicleType,
			&o.Status,
			&o.PaymentStatus,
			&o.TotalAmount,
			&o.OrderedAt,
			&o.StartedAt,
			&o.CompletedAt,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, 0, err
		}
		orders = append(orders, &o)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, 0, err
	}

	log.Info("fetch orders success",
		zap.Int("count", len(orders)),
		zap.Int("total", total),
	)

	return orders, total, nil
}

// GetOrderDetail loads an order with all of its lines.
func (r *repository) GetOrderDetail(ctx context.Context, orderID uint) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetOrderDetail"),
		zap.Uint("order_id", orderID),
	)

	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT
			id, customer_name, customer_email, customer_phone,
			branch_id, vehicle_type, status, payment_status, total_amount,
			ordered_at, started_at, completed_at, created_at, updated_at
		FROM orders WHERE id = $1
	`, orderID).Scan(
		&o.ID,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.CustomerPhone,
		&o.BranchID,
		&o.VehicleType,
		&o.Status,
		&o.PaymentStatus,
		&o.TotalAmount,
		&o.OrderedAt,
		&o.StartedAt,
		&o.CompletedAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		log.Error("failed to query order", zap.Error(err))
		return nil, err
	}

	if err := r.loadLines(ctx, &o); err != nil {
		log.Error("failed to load order lines", zap.Error(err))
		return nil, err
	}

	return &o, nil
}

func (r *repository) loadLines(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, package_id, package_name, service_type,
		       vehicle_type, vehicle_number, arrival_date, arrival_time, unit_price
		FROM order_service_lines
		WHERE order_id = $1
		ORDER BY id
	`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l ServiceLine
		if err := rows.Scan(
			&l.ID, &l.OrderID, &l.PackageID, &l.PackageName, &l.ServiceType,
			&l.VehicleType, &l.VehicleNumber, &l.ArrivalDate, &l.ArrivalTime, &l.UnitPrice,
		); err != nil {
			return err
		}
		o.ServiceLines = append(o.ServiceLines, &l)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	prodRows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price
		FROM order_product_lines
		WHERE order_id = $1
		ORDER BY id
	`, o.ID)
	if err != nil {
		return err
	}
	defer prodRows.Close()

	for prodRows.Next() {
		var l ProductLine
		if err := prodRows.Scan(
			&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice,
		); err != nil {
			return err
		}
		o.ProductLines = append(o.ProductLines, &l)
	}
	if err := prodRows.Err(); err != nil {
		return err
	}

	workRows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, extra_work_id, name, price
		FROM order_extra_work_lines
		WHERE order_id = $1
		ORDER BY id
	`, o.ID)
	if err != nil {
		return err
	}
	defer workRows.Close()

	for workRows.Next() {
		var l ExtraWorkLine
		if err := workRows.Scan(&l.ID, &l.OrderID, &l.ExtraWorkID, &l.Name, &l.Price); err != nil {
			return err
		}
		o.ExtraWorkLines = append(o.ExtraWorkLines, &l)
	}
	return workRows.Err()
}

// UpdateStatus moves an order to the given status. Entering IN_PROGRESS
// stamps started_at, entering COMPLETED stamps completed_at.
func (r *repository) UpdateStatus(ctx context.Context, orderID uint, status OrderStatus) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateStatus"),
		zap.Uint("order_id", orderID),
		zap.String("status", string(status)),
	)

	query := `UPDATE orders SET status = $1, updated_at = NOW()`
	switch status {
	case StatusInProgress:
		query += `, started_at = NOW()`
	case StatusCompleted:
		query += `, completed_at = NOW()`
	}
	query += ` WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, status, orderID)
	if err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	log.Info("order status updated")
	return nil
}

// UpdateDetailsTx replaces an order's editable fields and all of its lines.
// Lines are deleted and reinserted so removals on the edit form stick.
func (r *repository) UpdateDetailsTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateDetailsTx"),
		zap.Uint("order_id", o.ID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET
			customer_name = $1,
			customer_email = $2,
			customer_phone = $3,
			branch_id = $4,
			vehicle_type = $5,
			total_amount = $6,
			updated_at = NOW()
		WHERE id = $7
	`,
		o.CustomerName,
		o.CustomerEmail,
		o.CustomerPhone,
		o.BranchID,
		o.VehicleType,
		o.TotalAmount,
		o.ID,
	)
	if err != nil {
		log.Error("failed to update order", zap.Error(err))
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	for _, table := range []string{"order_service_lines", "order_product_lines", "order_extra_work_lines"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE order_id = $1", o.ID); err != nil {
			log.Error("failed to clear order lines", zap.Error(err))
			return err
		}
	}

	if err := insertLinesTx(ctx, tx, o); err != nil {
		log.Error("failed to reinsert order lines", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info("order details updated")
	return nil
}
