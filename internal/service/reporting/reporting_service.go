package reporting

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mbodji/stockroom/internal/domain/models"
	"github.com/mbodji/stockroom/internal/repository"
)

// Notifier delivers generated report snapshots to an external endpoint.
type Notifier interface {
	NotifyLowStockReport(ctx context.Context, report models.LowStockReport) error
}

// Service builds and persists low-stock report snapshots.
type Service struct {
	products repository.ProductStore
	reports  repository.ReportStore
	notifier Notifier
	logger   *zap.Logger
}

// NewService wires a new reporting service instance. The notifier may be nil
// when no webhook is configured.
func NewService(products repository.ProductStore, reports repository.ReportStore, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{products: products, reports: reports, notifier: notifier, logger: logger}
}

// GenerateLowStockReport snapshots every product at or below its threshold,
// persists the snapshot, and pushes it to the notifier when one is configured.
func (s *Service) GenerateLowStockReport(ctx context.Context) (models.LowStockReport, error) {
	lowStock, err := s.products.FindLowStock(ctx)
	if err != nil {
		return models.LowStockReport{}, err
	}

	items := make([]models.LowStockItem, 0, len(lowStock))
	for _, product := range lowStock {
		items = append(items, models.LowStockItem{
			ProductID:         product.ID,
			Name:              product.Name,
			StockQuantity:     product.StockQuantity,
			LowStockThreshold: product.LowStockThreshold,
		})
	}

	report := models.LowStockReport{
		GeneratedAt: time.Now().UTC(),
		Count:       len(items),
		Items:       items,
	}

	if err := s.reports.SaveLowStockReport(ctx, report); err != nil {
		return models.LowStockReport{}, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyLowStockReport(ctx, report); err != nil {
			s.logger.Error("failed to deliver low stock report", zap.Error(err))
		}
	}

	s.logger.Info("low stock report generated", zap.Int("count", report.Count))
	return report, nil
}
