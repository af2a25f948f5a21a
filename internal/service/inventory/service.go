package inventory

import (
	"context"

	"go.uber.org/zap"

	"github.com/mbodji/stockroom/internal/domain/models"
	"github.com/mbodji/stockroom/internal/repository"
)

// Notifier delivers low-stock alerts when a mutation leaves a product at or
// below its threshold. Delivery failures never fail the operation.
type Notifier interface {
	NotifyLowStock(ctx context.Context, product models.Product) error
}

// Service implements the inventory domain operations on top of a ProductStore.
type Service struct {
	store    repository.ProductStore
	notifier Notifier
	logger   *zap.Logger
}

// NewService wires a new inventory service instance. The notifier may be nil
// when alerting is not configured.
func NewService(store repository.ProductStore, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, notifier: notifier, logger: logger}
}

// Create validates and persists a new product.
func (s *Service) Create(ctx context.Context, cmd models.CreateProductCommand) (models.Product, error) {
	if err := cmd.Validate(); err != nil {
		return models.Product{}, err
	}

	product, err := s.store.Insert(ctx, cmd.Product())
	if err != nil {
		return models.Product{}, err
	}

	product.RefreshLowStock()
	s.maybeNotify(ctx, product)
	return product, nil
}

// List returns all products in store order.
func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range products {
		products[i].RefreshLowStock()
	}
	return products, nil
}

// Get returns the product for the given id.
func (s *Service) Get(ctx context.Context, id string) (models.Product, error) {
	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	product.RefreshLowStock()
	return product, nil
}

// Update applies a partial update after validating the supplied fields.
func (s *Service) Update(ctx context.Context, id string, cmd models.UpdateProductCommand) (models.Product, error) {
	if err := cmd.Validate(); err != nil {
		return models.Product{}, err
	}

	product, err := s.store.Update(ctx, id, cmd.Patch())
	if err != nil {
		return models.Product{}, err
	}

	product.RefreshLowStock()
	s.maybeNotify(ctx, product)
	return product, nil
}

// Delete removes the product for the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// AddStock atomically increases the stock quantity.
func (s *Service) AddStock(ctx context.Context, id string, cmd models.AdjustStockCommand) (models.StockAdjustment, error) {
	if err := cmd.Validate(); err != nil {
		return models.StockAdjustment{}, err
	}
	quantity := *cmd.Quantity

	before, err := s.store.AdjustStock(ctx, id, quantity)
	if err != nil {
		return models.StockAdjustment{}, err
	}

	return models.StockAdjustment{
		ID:            before.ID,
		Name:          before.Name,
		PreviousStock: before.StockQuantity,
		CurrentStock:  before.StockQuantity + quantity,
		QuantityAdded: quantity,
	}, nil
}

// RemoveStock atomically decreases the stock quantity. Removals exceeding the
// available stock fail with models.InsufficientStockError.
func (s *Service) RemoveStock(ctx context.Context, id string, cmd models.AdjustStockCommand) (models.StockAdjustment, error) {
	if err := cmd.Validate(); err != nil {
		return models.StockAdjustment{}, err
	}
	quantity := *cmd.Quantity

	before, err := s.store.AdjustStock(ctx, id, -quantity)
	if err != nil {
		return models.StockAdjustment{}, err
	}

	after := before
	after.StockQuantity = before.StockQuantity - quantity
	after.RefreshLowStock()
	s.maybeNotify(ctx, after)

	return models.StockAdjustment{
		ID:              before.ID,
		Name:            before.Name,
		PreviousStock:   before.StockQuantity,
		CurrentStock:    after.StockQuantity,
		QuantityRemoved: quantity,
	}, nil
}

// ListLowStock returns the products at or below their threshold.
func (s *Service) ListLowStock(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}

	for i := range products {
		products[i].RefreshLowStock()
	}
	return products, nil
}

func (s *Service) maybeNotify(ctx context.Context, product models.Product) {
	if s.notifier == nil || !product.IsLowStock {
		return
	}

	if err := s.notifier.NotifyLowStock(ctx, product); err != nil {
		s.logger.Error("failed to deliver low stock alert",
			zap.String("product_id", product.ID.Hex()),
			zap.Error(err))
	}
}
