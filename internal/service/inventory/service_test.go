package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mbodji/stockroom/internal/domain/models"
)

// memStore is a mutex-guarded in-memory ProductStore for service tests.
type memStore struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
	order    []primitive.ObjectID
}

func newMemStore() *memStore {
	return &memStore{products: make(map[primitive.ObjectID]models.Product)}
}

func (m *memStore) Insert(_ context.Context, product models.Product) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	product.ID = primitive.NewObjectID()
	m.products[product.ID] = product
	m.order = append(m.order, product.ID)
	return product, nil
}

func (m *memStore) FindAll(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Product, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.products[id])
	}
	return out, nil
}

func (m *memStore) FindByID(_ context.Context, id string) (models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, &models.StoreError{Op: "parse product id", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	product, ok := m.products[oid]
	if !ok {
		return models.Product{}, models.ErrNotFound
	}
	return product, nil
}

func (m *memStore) Update(_ context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, &models.StoreError{Op: "parse product id", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	product, ok := m.products[oid]
	if !ok {
		return models.Product{}, models.ErrNotFound
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.StockQuantity != nil {
		product.StockQuantity = *patch.StockQuantity
	}
	if patch.LowStockThreshold != nil {
		product.LowStockThreshold = *patch.LowStockThreshold
	}

	m.products[oid] = product
	return product, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &models.StoreError{Op: "parse product id", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[oid]; !ok {
		return models.ErrNotFound
	}

	delete(m.products, oid)
	for i, existing := range m.order {
		if existing == oid {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memStore) AdjustStock(_ context.Context, id string, delta int) (models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, &models.StoreError{Op: "parse product id", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	product, ok := m.products[oid]
	if !ok {
		return models.Product{}, models.ErrNotFound
	}

	if delta < 0 && product.StockQuantity < -delta {
		return models.Product{}, &models.InsufficientStockError{
			Available: product.StockQuantity,
			Requested: -delta,
		}
	}

	before := product
	product.StockQuantity += delta
	m.products[oid] = product
	return before, nil
}

func (m *memStore) FindLowStock(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Product, 0)
	for _, id := range m.order {
		product := m.products[id]
		if product.StockQuantity <= product.LowStockThreshold {
			out = append(out, product)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	notified []models.Product
}

func (n *recordingNotifier) NotifyLowStock(_ context.Context, product models.Product) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, product)
	return nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func createCmd(name, description string, stock, threshold int) models.CreateProductCommand {
	return models.CreateProductCommand{
		Name:              strPtr(name),
		Description:       strPtr(description),
		StockQuantity:     intPtr(stock),
		LowStockThreshold: intPtr(threshold),
	}
}

func mustCreate(t *testing.T, svc *Service, stock, threshold int) models.Product {
	t.Helper()
	product, err := svc.Create(context.Background(), createCmd("Test Product", "Test Description", stock, threshold))
	require.NoError(t, err)
	return product
}

func TestCreate_ComputesLowStockFlag(t *testing.T) {
	svc := NewService(newMemStore(), nil, nil)

	cases := []struct {
		stock     int
		threshold int
		low       bool
	}{
		{stock: 3, threshold: 5, low: true},
		{stock: 5, threshold: 5, low: true}, // exactly at threshold counts
		{stock: 10, threshold: 5, low: false},
		{stock: 0, threshold: 0, low: true},
	}

	for _, tc := range cases {
		product, err := svc.Create(context.Background(), createCmd("Widget", "A widget", tc.stock, tc.threshold))
		require.NoError(t, err)
		assert.False(t, product.ID.IsZero())
		assert.Equal(t, tc.stock, product.StockQuantity)
		assert.Equal(t, tc.low, product.IsLowStock, "stock=%d threshold=%d", tc.stock, tc.threshold)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMemStore(), nil, nil)

	cases := []struct {
		name    string
		cmd     models.CreateProductCommand
		message string
	}{
		{
			name: "missing name",
			cmd: models.CreateProductCommand{
				Description:       strPtr("d"),
				StockQuantity:     intPtr(1),
				LowStockThreshold: intPtr(1),
			},
			message: "Product name is required",
		},
		{
			name:    "blank name",
			cmd:     createCmd("   ", "d", 1, 1),
			message: "Product name is required",
		},
		{
			name:    "name too long",
			cmd:     createCmd(strings.Repeat("a", 101), "d", 1, 1),
			message: "Product name cannot exceed 100 characters",
		},
		{
			name: "missing description",
			cmd: models.CreateProductCommand{
				Name:              strPtr("n"),
				StockQuantity:     intPtr(1),
				LowStockThreshold: intPtr(1),
			},
			message: "Product description is required",
		},
		{
			name:    "description too long",
			cmd:     createCmd("n", strings.Repeat("a", 501), 1, 1),
			message: "Description cannot exceed 500 characters",
		},
		{
			name: "missing stock quantity",
			cmd: models.CreateProductCommand{
				Name:              strPtr("n"),
				Description:       strPtr("d"),
				LowStockThreshold: intPtr(1),
			},
			message: "Stock quantity is required",
		},
		{
			name:    "negative stock quantity",
			cmd:     createCmd("n", "d", -1, 1),
			message: "Stock quantity cannot be negative",
		},
		{
			name: "missing threshold",
			cmd: models.CreateProductCommand{
				Name:          strPtr("n"),
				Description:   strPtr("d"),
				StockQuantity: intPtr(1),
			},
			message: "Low stock threshold is required",
		},
		{
			name:    "negative threshold",
			cmd:     createCmd("n", "d", 1, -1),
			message: "Low stock threshold cannot be negative",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.cmd)

			var validationErr *models.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.message, validationErr.Message)
		})
	}
}

func TestOperations_NotFound(t *testing.T) {
	svc := NewService(newMemStore(), nil, nil)
	ctx := context.Background()
	missing := primitive.NewObjectID().Hex()

	_, err := svc.Get(ctx, missing)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Update(ctx, missing, models.UpdateProductCommand{Description: strPtr("d")})
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, missing), models.ErrNotFound)

	_, err = svc.AddStock(ctx, missing, models.AdjustStockCommand{Quantity: intPtr(1)})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.RemoveStock(ctx, missing, models.AdjustStockCommand{Quantity: intPtr(1)})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAddRemoveStock_RoundTrip(t *testing.T) {
	svc := NewService(newMemStore(), nil, nil)
	ctx := context.Background()
	product := mustCreate(t, svc, 10, 5)
	id := product.ID.Hex()

	added, err := svc.AddStock(ctx, id, models.AdjustStockCommand{Quantity: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, 10, added.PreviousStock)
	assert.Equal(t, 14, added.CurrentStock)
	assert.Equal(t, 4, added.QuantityAdded)

	removed, err := svc.RemoveStock(ctx, id, models.AdjustStockCommand{Quantity: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, 14, removed.PreviousStock)
	assert.Equal(t, 10, removed.CurrentStock)
	assert.Equal(t, 4, removed.QuantityRemoved)

	current, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, current.StockQuantity)
}

func TestRemoveStock_Insufficient(t *testing.T) {
	svc := NewService(newMemStore(), nil, nil)
	ctx := context.Background()
	product := mustCreate(t, svc, 10, 5)
	id := product.ID.Hex()

	_, err := svc.RemoveStock(ctx, id, models.AdjustStockCommand{Quantity: intPtr(11)})

	var insufficientErr *models.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 10, insufficientErr.Available)
	assert.Equal(t, 11, insufficientErr.Requested)
	assert.Contains(t, err.Error(), "Available: 10")
	assert.Contains(t, err.Error(), "Requested: 11")

	// the failed removal must not touch stored state
	current, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, current.StockQuantity)
}

func TestAdjustStock_InvalidQuantity(t *testing.T) {
	svc := NewService(newMemStore(), nil, nil)
	ctx := context.Background()
	product := mustCreate(t, svc, 10, 5)
	id := product.ID.Hex()

	for _, quantity := range []*int{nil, intPtr(0), intPtr(-5)} {
		cmd := models.AdjustStockCommand{Quantity: quantity}

		_, err := svc.AddStock(ctx, id, cmd)
		assert.ErrorIs(t, err, models.ErrInvalidQuantity)

		_, err = svc.RemoveStock(ctx, id, cmd)
		assert.ErrorIs(t, err, models.ErrInvalidQuantity)
	}

	current, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, current.StockQuantity)
}

func TestUpdate_PartialFields(t *testing.T) {
	svc := NewService(newMemStore(), nil, nil)
	ctx := context.Background()
	product := mustCreate(t, svc, 10, 5)
	id := product.ID.Hex()

	updated, err := svc.Update(ctx, id, models.UpdateProductCommand{Description: strPtr("Restocked weekly")})
	require.NoError(t, err)
	assert.Equal(t, "Test Product", updated.Name)
	assert.Equal(t, "Restocked weekly", updated.Description)
	assert.Equal(t, 10, updated.StockQuantity)

	_, err = svc.Update(ctx, id, models.UpdateProductCommand{StockQuantity: intPtr(-2)})
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Stock quantity cannot be negative", validationErr.Message)

	// rejected patch must not mutate persisted state
	current, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, current.StockQuantity)
}

func TestListLowStock(t *testing.T) {
	svc := NewService(newMemStore(), nil, nil)
	ctx := context.Background()

	for i, tc := range []struct{ stock, threshold int }{
		{2, 5}, {10, 5}, {5, 5},
	} {
		_, err := svc.Create(ctx, createCmd(fmt.Sprintf("Product %d", i+1), "Test", tc.stock, tc.threshold))
		require.NoError(t, err)
	}

	lowStock, err := svc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, lowStock, 2)
	assert.Equal(t, "Product 1", lowStock[0].Name)
	assert.Equal(t, "Product 3", lowStock[1].Name)
	for _, product := range lowStock {
		assert.True(t, product.IsLowStock)
	}
}

func TestList_OrderAndFlags(t *testing.T) {
	svc := NewService(newMemStore(), nil, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, createCmd("First", "d", 1, 5))
	require.NoError(t, err)
	second, err := svc.Create(ctx, createCmd("Second", "d", 9, 5))
	require.NoError(t, err)

	products, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, first.ID, products[0].ID)
	assert.Equal(t, second.ID, products[1].ID)
	assert.True(t, products[0].IsLowStock)
	assert.False(t, products[1].IsLowStock)
}

func TestRemoveStock_NotifiesWhenLow(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(newMemStore(), notifier, nil)
	ctx := context.Background()
	product := mustCreate(t, svc, 10, 5)
	id := product.ID.Hex()

	_, err := svc.RemoveStock(ctx, id, models.AdjustStockCommand{Quantity: intPtr(2)})
	require.NoError(t, err)
	assert.Empty(t, notifier.notified, "stock 8 with threshold 5 is not low")

	_, err = svc.RemoveStock(ctx, id, models.AdjustStockCommand{Quantity: intPtr(4)})
	require.NoError(t, err)
	require.Len(t, notifier.notified, 1)
	assert.Equal(t, 4, notifier.notified[0].StockQuantity)
}

func TestStockScenario(t *testing.T) {
	svc := NewService(newMemStore(), nil, nil)
	ctx := context.Background()

	product := mustCreate(t, svc, 10, 5)
	added, err := svc.AddStock(ctx, product.ID.Hex(), models.AdjustStockCommand{Quantity: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, 10, added.PreviousStock)
	assert.Equal(t, 15, added.CurrentStock)

	fresh := mustCreate(t, svc, 10, 5)
	removed, err := svc.RemoveStock(ctx, fresh.ID.Hex(), models.AdjustStockCommand{Quantity: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, 10, removed.PreviousStock)
	assert.Equal(t, 7, removed.CurrentStock)

	another := mustCreate(t, svc, 10, 5)
	_, err = svc.RemoveStock(ctx, another.ID.Hex(), models.AdjustStockCommand{Quantity: intPtr(11)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available: 10")
	assert.Contains(t, err.Error(), "Requested: 11")
}
