package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbodji/stockroom/internal/domain/models"
	"github.com/mbodji/stockroom/internal/service/inventory"
)

// response is the envelope shared by every endpoint.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ProductHandler adapts HTTP requests to inventory service calls.
type ProductHandler struct {
	svc    *inventory.Service
	logger *zap.Logger
}

// NewProductHandler constructs the HTTP handler adapter.
func NewProductHandler(svc *inventory.Service, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{svc: svc, logger: logger}
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var cmd models.CreateProductCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.logger.Warn("invalid create payload", zap.Error(err))
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.svc.Create(c.Request.Context(), cmd)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// List handles GET /api/products.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	count := len(products)
	c.JSON(http.StatusOK, response{Success: true, Count: &count, Data: products})
}

// GetByID handles GET /api/products/:id.
func (h *ProductHandler) GetByID(c *gin.Context) {
	product, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response{Success: true, Data: product})
}

// Update handles PUT /api/products/:id with patch semantics.
func (h *ProductHandler) Update(c *gin.Context) {
	var cmd models.UpdateProductCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.logger.Warn("invalid update payload", zap.Error(err))
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.svc.Update(c.Request.Context(), c.Param("id"), cmd)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response{
		Success: true,
		Message: "Product updated successfully",
		Data:    product,
	})
}

// Delete handles DELETE /api/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response{Success: true, Message: "Product deleted successfully"})
}

// AddStock handles PATCH /api/products/:id/add-stock.
func (h *ProductHandler) AddStock(c *gin.Context) {
	cmd, ok := h.bindAdjustCommand(c)
	if !ok {
		return
	}

	adjustment, err := h.svc.AddStock(c.Request.Context(), c.Param("id"), cmd)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response{
		Success: true,
		Message: formatAdjustMessage("Added", adjustment.QuantityAdded, "to"),
		Data:    adjustment,
	})
}

// RemoveStock handles PATCH /api/products/:id/remove-stock.
func (h *ProductHandler) RemoveStock(c *gin.Context) {
	cmd, ok := h.bindAdjustCommand(c)
	if !ok {
		return
	}

	adjustment, err := h.svc.RemoveStock(c.Request.Context(), c.Param("id"), cmd)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response{
		Success: true,
		Message: formatAdjustMessage("Removed", adjustment.QuantityRemoved, "from"),
		Data:    adjustment,
	})
}

// ListLowStock handles GET /api/products/low-stock.
func (h *ProductHandler) ListLowStock(c *gin.Context) {
	products, err := h.svc.ListLowStock(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	count := len(products)
	c.JSON(http.StatusOK, response{
		Success: true,
		Message: "Low stock products retrieved successfully",
		Count:   &count,
		Data:    products,
	})
}

func (h *ProductHandler) bindAdjustCommand(c *gin.Context) (models.AdjustStockCommand, bool) {
	var cmd models.AdjustStockCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.logger.Warn("invalid stock adjustment payload", zap.Error(err))
		respondError(c, http.StatusBadRequest, "Quantity must be a positive number")
		return models.AdjustStockCommand{}, false
	}
	return cmd, true
}

// respondServiceError maps the error taxonomy onto HTTP statuses. Store faults
// and unclassified failures are logged and surfaced as a generic failure.
func (h *ProductHandler) respondServiceError(c *gin.Context, err error) {
	var (
		validationErr   *models.ValidationError
		insufficientErr *models.InsufficientStockError
	)

	switch {
	case errors.Is(err, models.ErrNotFound):
		respondError(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, models.ErrInvalidQuantity):
		respondError(c, http.StatusBadRequest, "Quantity must be a positive number")
	case errors.As(err, &validationErr):
		respondError(c, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &insufficientErr):
		respondError(c, http.StatusBadRequest, insufficientErr.Error())
	default:
		h.logger.Error("inventory operation failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, response{Success: false, Message: message})
}

func formatAdjustMessage(verb string, quantity int, preposition string) string {
	return fmt.Sprintf("%s %d units %s stock", verb, quantity, preposition)
}
