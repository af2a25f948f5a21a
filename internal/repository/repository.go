package repository

import (
	"context"

	"github.com/mbodji/stockroom/internal/domain/models"
)

// ProductStore is the persistence surface for inventory records.
type ProductStore interface {
	Insert(ctx context.Context, product models.Product) (models.Product, error)
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (models.Product, error)
	Update(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error)
	Delete(ctx context.Context, id string) error
	// AdjustStock atomically applies delta to the stock quantity and returns
	// the pre-adjustment product. A negative delta larger than the available
	// stock fails with models.InsufficientStockError.
	AdjustStock(ctx context.Context, id string, delta int) (models.Product, error)
	FindLowStock(ctx context.Context) ([]models.Product, error)
}

// ReportStore persists low-stock report snapshots.
type ReportStore interface {
	SaveLowStockReport(ctx context.Context, report models.LowStockReport) error
}
