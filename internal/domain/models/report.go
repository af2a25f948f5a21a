package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LowStockReport is a point-in-time snapshot of every product at or below its
// threshold.
type LowStockReport struct {
	GeneratedAt time.Time      `bson:"generated_at" json:"generated_at"`
	Count       int            `bson:"count" json:"count"`
	Items       []LowStockItem `bson:"items" json:"items"`
}

// LowStockItem is one product entry inside a low-stock report.
type LowStockItem struct {
	ProductID         primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name              string             `bson:"name" json:"name"`
	StockQuantity     int                `bson:"stock_quantity" json:"stock_quantity"`
	LowStockThreshold int                `bson:"low_stock_threshold" json:"low_stock_threshold"`
}
