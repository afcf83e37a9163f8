package order

import (
	"context"

	"washworks-be/internal/inspection"
	"washworks-be/internal/logger"
	"washworks-be/internal/product"
	"washworks-be/internal/storage"
	"washworks-be/internal/validation"

	"go.uber.org/zap"
)

type Service interface {
	GetOrders(ctx context.Context, filter *OrderFilterInput, limit, page *int) ([]*Order, int, error)
	GetOrderDetail(ctx context.Context, orderID uint) (*Order, error)
	CreateOffline(ctx context.Context, input OfflineOrderInput) (*Order, error)
	UpdateStatus(ctx context.Context, orderID uint, next OrderStatus) error
	UpdateDetails(ctx context.Context, orderID uint, input OfflineOrderInput) (*Order, error)

	// StartWork persists the inspection submission and moves the order to
	// IN_PROGRESS. Returns the stored records, provisional or not.
	StartWork(ctx context.Context, orderID uint, sub *inspection.Submission) ([]*inspection.Record, error)
	ListInspections(ctx context.Context, orderID uint) ([]*inspection.Record, error)

	// Complete finishes the job. Service orders must be IN_PROGRESS and,
	// when inspection records exist, carry at least one confirmation.
	// Product-only orders complete straight from PENDING.
	Complete(ctx context.Context, orderID uint, confirmations []inspection.ConfirmationInput) error
}

type service struct {
	repo        Repository
	composer    *Composer
	inspections inspection.Repository
	products    product.Service
	photos      storage.PhotoStore
}

func NewService(
	repo Repository,
	composer *Composer,
	inspections inspection.Repository,
	products product.Service,
	photos storage.PhotoStore,
) Service {
	return &service{
		repo:        repo,
		composer:    composer,
		inspections: inspections,
		products:    products,
		photos:      photos,
	}
}

func (s *service) GetOrders(ctx context.Context, filter *OrderFilterInput, limit, page *int) ([]*Order, int, error) {
	if filter != nil && filter.Status != nil && *filter.Status != "" && !ValidStatus(*filter.Status) {
		return nil, 0, validation.Errorf("unknown status: %s", *filter.Status)
	}
	return s.repo.FetchOrders(ctx, filter, limit, page)
}

func (s *service) GetOrderDetail(ctx context.Context, orderID uint) (*Order, error) {
	return s.repo.GetOrderDetail(ctx, orderID)
}

func (s *service) CreateOffline(ctx context.Context, input OfflineOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOffline"),
	)

	o, err := s.composer.Compose(ctx, input)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateOrder(ctx, o)
	if err != nil {
		log.Error("failed to persist order", zap.Error(err))
		return nil, err
	}

	log.Info("offline order created", zap.Uint("order_id", created.ID))
	return created, nil
}

// UpdateStatus handles the generic status moves: cancellation and
// completion of product-only orders. Service orders start through the
// inspection checklist and complete through the confirmation flow, so
// those moves are rejected here.
func (s *service) UpdateStatus(ctx context.Context, orderID uint, next OrderStatus) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.Uint("order_id", orderID),
		zap.String("next", string(next)),
	)

	if !ValidStatus(next) {
		return validation.Errorf("unknown status: %s", next)
	}

	o, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return err
	}

	if !o.Status.CanTransition(next) {
		log.Warn("transition rejected", zap.String("current", string(o.Status)))
		return ErrInvalidTransition
	}

	if next == StatusCompleted {
		if o.HasServices() {
			return validation.Errorf("service orders complete through the inspection confirmation flow")
		}
		return s.Complete(ctx, orderID, nil)
	}
	if next == StatusInProgress {
		if o.HasServices() {
			return validation.Errorf("service orders start through the inspection checklist")
		}
		return validation.Errorf("product-only orders complete without going in progress")
	}

	return s.repo.UpdateStatus(ctx, orderID, next)
}

func (s *service) UpdateDetails(ctx context.Context, orderID uint, input OfflineOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateDetails"),
		zap.Uint("order_id", orderID),
	)

	existing, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if existing.Status.Terminal() {
		return nil, validation.Errorf("order is %s and can no longer be edited", existing.Status)
	}

	revised, err := s.composer.Revise(ctx, input)
	if err != nil {
		return nil, err
	}
	revised.ID = orderID

	if err := s.repo.UpdateDetailsTx(ctx, revised); err != nil {
		log.Error("failed to update order details", zap.Error(err))
		return nil, err
	}

	return s.repo.GetOrderDetail(ctx, orderID)
}

func (s *service) StartWork(ctx context.Context, orderID uint, sub *inspection.Submission) ([]*inspection.Record, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "StartWork"),
		zap.Uint("order_id", orderID),
	)

	o, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.HasServices() {
		return nil, validation.Errorf("order has no services to start")
	}
	if !o.Status.CanTransition(StatusInProgress) {
		return nil, ErrInvalidTransition
	}

	items := make([]inspection.NewRecord, 0, len(sub.Items))
	for _, item := range sub.Items {
		url, err := s.photos.Upload(ctx, orderID, item.Photo.Name, item.Photo.Data)
		if err != nil {
			return nil, err
		}
		items = append(items, inspection.NewRecord{
			Name:     item.Name,
			Notes:    item.Notes,
			PhotoURL: url,
		})
	}

	records, err := s.inspections.InsertRecords(ctx, orderID, items)
	if err != nil {
		log.Error("failed to insert inspection records", zap.Error(err))
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, orderID, StatusInProgress); err != nil {
		return nil, err
	}

	log.Info("work started",
		zap.Int("records", len(records)),
		zap.Int("skipped_without_photo", sub.UnattachedCount),
	)

	return records, nil
}

func (s *service) ListInspections(ctx context.Context, orderID uint) ([]*inspection.Record, error) {
	if _, err := s.repo.GetOrderDetail(ctx, orderID); err != nil {
		return nil, err
	}
	return s.inspections.ListByOrder(ctx, orderID)
}

func (s *service) Complete(ctx context.Context, orderID uint, confirmations []inspection.ConfirmationInput) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Complete"),
		zap.Uint("order_id", orderID),
	)

	o, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return err
	}

	if o.HasServices() {
		if o.Status != StatusInProgress {
			return ErrInvalidTransition
		}

		records, err := s.inspections.ListByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if len(records) > 0 && len(confirmations) == 0 {
			return validation.Errorf("at least one confirmation image required")
		}

		confs := make([]inspection.NewConfirmation, 0, len(confirmations))
		for _, c := range confirmations {
			url, err := s.photos.Upload(ctx, orderID, c.Photo.Name, c.Photo.Data)
			if err != nil {
				return err
			}
			confs = append(confs, inspection.NewConfirmation{
				RecordID: c.RecordID,
				Verified: c.Verified,
				Notes:    c.Notes,
				PhotoURL: url,
			})
		}

		if len(confs) > 0 {
			if err := s.inspections.InsertConfirmations(ctx, orderID, confs); err != nil {
				log.Error("failed to insert confirmations", zap.Error(err))
				return err
			}
		}
	} else {
		if !o.Status.CanTransition(StatusCompleted) {
			return ErrInvalidTransition
		}
	}

	if err := s.repo.UpdateStatus(ctx, orderID, StatusCompleted); err != nil {
		return err
	}

	// Consumed stock is settled after the status flip. A failed decrement
	// never rolls the completion back, it only leaves a trace in the log.
	for _, l := range o.ProductLines {
		if err := s.products.DecrementStock(ctx, l.ProductID, o.BranchID, l.Quantity); err != nil {
			log.Warn("stock decrement failed",
				zap.Uint("product_id", l.ProductID),
				zap.Int("quantity", l.Quantity),
				zap.Error(err),
			)
		}
	}

	log.Info("order completed", zap.Int("confirmations", len(confirmations)))
	return nil
}
