package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mbodji/stockroom/internal/domain/models"
)

// Client posts low-stock alert payloads to a configured HTTP endpoint.
type Client struct {
	httpClient *resty.Client
	endpoint   string
}

// NewClient builds an alert webhook client for the provided endpoint.
func NewClient(endpoint string) *Client {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second).
		SetRetryCount(2)

	return &Client{
		httpClient: restyClient,
		endpoint:   endpoint,
	}
}

// LowStockAlert is the payload pushed when a product sits at or below its
// threshold after a mutation.
type LowStockAlert struct {
	Event             string    `json:"event"`
	ProductID         string    `json:"product_id"`
	Name              string    `json:"name"`
	StockQuantity     int       `json:"stock_quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	TriggeredAt       time.Time `json:"triggered_at"`
}

// lowStockReportEvent wraps a report snapshot for delivery.
type lowStockReportEvent struct {
	Event  string                `json:"event"`
	Report models.LowStockReport `json:"report"`
}

// NotifyLowStock delivers a single-product low-stock alert.
func (c *Client) NotifyLowStock(ctx context.Context, product models.Product) error {
	payload := LowStockAlert{
		Event:             "product.low_stock",
		ProductID:         product.ID.Hex(),
		Name:              product.Name,
		StockQuantity:     product.StockQuantity,
		LowStockThreshold: product.LowStockThreshold,
		TriggeredAt:       time.Now().UTC(),
	}
	return c.post(ctx, payload)
}

// NotifyLowStockReport delivers a full low-stock report snapshot.
func (c *Client) NotifyLowStockReport(ctx context.Context, report models.LowStockReport) error {
	return c.post(ctx, lowStockReportEvent{
		Event:  "inventory.low_stock_report",
		Report: report,
	})
}

func (c *Client) post(ctx context.Context, payload any) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.endpoint)
	if err != nil {
		return fmt.Errorf("post alert webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("alert webhook returned status %d", resp.StatusCode())
	}
	return nil
}
