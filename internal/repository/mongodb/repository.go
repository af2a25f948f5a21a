package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mbodji/stockroom/internal/domain/models"
)

const (
	productsCollection = "products"
	reportsCollection  = "low_stock_reports"
)

// Repository implements the product and report stores on MongoDB.
type Repository struct {
	client *mongo.Client
	dbName string
}

// NewRepository connects to MongoDB and verifies the connection.
func NewRepository(ctx context.Context, uri string, dbName string) (*Repository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{client: client, dbName: dbName}, nil
}

func (r *Repository) products() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(productsCollection)
}

// Insert persists a new product, assigning its id and timestamps.
func (r *Repository) Insert(ctx context.Context, product models.Product) (models.Product, error) {
	now := time.Now().UTC()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := r.products().InsertOne(ctx, product); err != nil {
		return models.Product{}, &models.StoreError{Op: "insert product", Err: err}
	}
	return product, nil
}

// FindAll returns every product in insertion order.
func (r *Repository) FindAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.products().Find(ctx, bson.D{})
	if err != nil {
		return nil, &models.StoreError{Op: "list products", Err: err}
	}

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, &models.StoreError{Op: "decode products", Err: err}
	}
	return products, nil
}

// FindByID returns the product for the given id.
func (r *Repository) FindByID(ctx context.Context, id string) (models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Product{}, err
	}

	var product models.Product
	err = r.products().FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, models.ErrNotFound
	}
	if err != nil {
		return models.Product{}, &models.StoreError{Op: "find product", Err: err}
	}
	return product, nil
}

// Update applies the non-nil patch fields and returns the updated product.
func (r *Repository) Update(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Product{}, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.StockQuantity != nil {
		set["stock_quantity"] = *patch.StockQuantity
	}
	if patch.LowStockThreshold != nil {
		set["low_stock_threshold"] = *patch.LowStockThreshold
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err = r.products().FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, models.ErrNotFound
	}
	if err != nil {
		return models.Product{}, &models.StoreError{Op: "update product", Err: err}
	}
	return product, nil
}

// Delete removes the product for the given id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := r.products().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return &models.StoreError{Op: "delete product", Err: err}
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AdjustStock applies delta in one conditional update so concurrent
// adjustments never read a stale quantity. For removals the filter requires
// sufficient stock, which keeps the stored quantity non-negative. The returned
// product is the pre-adjustment document.
func (r *Repository) AdjustStock(ctx context.Context, id string, delta int) (models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Product{}, err
	}

	filter := bson.M{"_id": oid}
	if delta < 0 {
		filter["stock_quantity"] = bson.M{"$gte": -delta}
	}

	update := bson.M{
		"$inc": bson.M{"stock_quantity": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var before models.Product
	err = r.products().FindOneAndUpdate(ctx, filter, update, opts).Decode(&before)
	if err == nil {
		return before, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, &models.StoreError{Op: "adjust stock", Err: err}
	}

	// No match: either the product is gone or the guard rejected the removal.
	current, findErr := r.FindByID(ctx, id)
	if findErr != nil {
		return models.Product{}, findErr
	}
	return models.Product{}, &models.InsufficientStockError{Available: current.StockQuantity, Requested: -delta}
}

// FindLowStock returns every product whose quantity is at or below its
// threshold.
func (r *Repository) FindLowStock(ctx context.Context) ([]models.Product, error) {
	filter := bson.M{"$expr": bson.M{"$lte": bson.A{"$stock_quantity", "$low_stock_threshold"}}}

	cursor, err := r.products().Find(ctx, filter)
	if err != nil {
		return nil, &models.StoreError{Op: "list low stock products", Err: err}
	}

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, &models.StoreError{Op: "decode low stock products", Err: err}
	}
	return products, nil
}

// SaveLowStockReport saves a low-stock report snapshot to the database.
func (r *Repository) SaveLowStockReport(ctx context.Context, report models.LowStockReport) error {
	collection := r.client.Database(r.dbName).Collection(reportsCollection)
	if _, err := collection.InsertOne(ctx, report); err != nil {
		return &models.StoreError{Op: "insert low stock report", Err: err}
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &models.StoreError{Op: "parse product id", Err: err}
	}
	return oid, nil
}
