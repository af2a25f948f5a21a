package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a single inventory record.
type Product struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Description       string             `bson:"description" json:"description"`
	StockQuantity     int                `bson:"stock_quantity" json:"stock_quantity"`
	LowStockThreshold int                `bson:"low_stock_threshold" json:"low_stock_threshold"`
	IsLowStock        bool               `bson:"-" json:"is_low_stock"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

// RefreshLowStock recomputes the derived low-stock flag. A product exactly at
// its threshold counts as low stock.
func (p *Product) RefreshLowStock() {
	p.IsLowStock = p.StockQuantity <= p.LowStockThreshold
}

// ProductPatch carries the subset of fields to modify on a partial update.
// Nil fields are left untouched.
type ProductPatch struct {
	Name              *string
	Description       *string
	StockQuantity     *int
	LowStockThreshold *int
}

// StockAdjustment summarizes an applied stock mutation.
type StockAdjustment struct {
	ID              primitive.ObjectID `json:"id"`
	Name            string             `json:"name"`
	PreviousStock   int                `json:"previousStock"`
	CurrentStock    int                `json:"currentStock"`
	QuantityAdded   int                `json:"quantityAdded,omitempty"`
	QuantityRemoved int                `json:"quantityRemoved,omitempty"`
}
