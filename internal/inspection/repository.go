package inspection

import (
	"context"
	"database/sql"

	"washworks-be/internal/logger"

	"go.uber.org/zap"
)

// NewRecord is one record candidate with its photo already uploaded.
type NewRecord struct {
	Name     string
	Notes    *string
	PhotoURL string
}

// NewConfirmation is one verified confirmation with its photo uploaded.
type NewConfirmation struct {
	RecordID uint
	Verified bool
	Notes    *string
	PhotoURL string
}

type Repository interface {
	InsertRecords(ctx context.Context, orderID uint, items []NewRecord) ([]*Record, error)
	ListByOrder(ctx context.Context, orderID uint) ([]*Record, error)
	InsertConfirmations(ctx context.Context, orderID uint, confs []NewConfirmation) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InsertRecords(ctx context.Context, orderID uint, items []NewRecord) ([]*Record, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "InsertRecords"),
		zap.Uint("order_id", orderID),
		zap.Int("count", len(items)),
	)

	if len(items) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	records := make([]*Record, 0, len(items))
	for i, item := range items {
		rec := &Record{
			OrderID:  orderID,
			Name:     item.Name,
			Notes:    item.Notes,
			PhotoURL: item.PhotoURL,
		}

		err := tx.QueryRowContext(ctx, `
			INSERT INTO inspection_records (order_id, name, notes, photo_url)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`, orderID, item.Name, item.Notes, item.PhotoURL).Scan(&rec.ID, &rec.CreatedAt)
		if err != nil {
			log.Error("failed to insert inspection record", zap.Error(err))
			return nil, err
		}

		if rec.ID == 0 {
			// No identifier came back; number locally and reconcile against
			// authoritative ids on the next fetch.
			rec.ID = uint(i + 1)
			rec.Provisional = true
		}

		records = append(records, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("inspection records created", zap.Int("count", len(records)))
	return records, nil
}

func (r *repository) ListByOrder(ctx context.Context, orderID uint) ([]*Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, name, notes, photo_url, created_at
		FROM inspection_records
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.OrderID, &rec.Name, &rec.Notes, &rec.PhotoURL, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

func (r *repository) InsertConfirmations(ctx context.Context, orderID uint, confs []NewConfirmation) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "InsertConfirmations"),
		zap.Uint("order_id", orderID),
		zap.Int("count", len(confs)),
	)

	if len(confs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, conf := range confs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO completion_confirmations (record_id, order_id, verified, notes, photo_url)
			VALUES ($1, $2, $3, $4, $5)
		`, conf.RecordID, orderID, conf.Verified, conf.Notes, conf.PhotoURL)
		if err != nil {
			log.Error("failed to insert confirmation", zap.Uint("record_id", conf.RecordID), zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}
