package models

import "strings"

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
)

// CreateProductCommand is the typed form of a product creation request.
// Pointer fields distinguish a missing value from a zero value.
type CreateProductCommand struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	StockQuantity     *int    `json:"stock_quantity"`
	LowStockThreshold *int    `json:"low_stock_threshold"`
}

// Validate rejects the command when any required field is absent or invalid.
func (c CreateProductCommand) Validate() error {
	if err := validateName(c.Name, true); err != nil {
		return err
	}
	if err := validateDescription(c.Description, true); err != nil {
		return err
	}
	if c.StockQuantity == nil {
		return &ValidationError{Message: "Stock quantity is required"}
	}
	if *c.StockQuantity < 0 {
		return &ValidationError{Message: "Stock quantity cannot be negative"}
	}
	if c.LowStockThreshold == nil {
		return &ValidationError{Message: "Low stock threshold is required"}
	}
	if *c.LowStockThreshold < 0 {
		return &ValidationError{Message: "Low stock threshold cannot be negative"}
	}
	return nil
}

// Product materializes a record from a validated command.
func (c CreateProductCommand) Product() Product {
	return Product{
		Name:              strings.TrimSpace(*c.Name),
		Description:       strings.TrimSpace(*c.Description),
		StockQuantity:     *c.StockQuantity,
		LowStockThreshold: *c.LowStockThreshold,
	}
}

// UpdateProductCommand is the typed form of a partial update request. Only
// non-nil fields are validated and applied.
type UpdateProductCommand struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	StockQuantity     *int    `json:"stock_quantity"`
	LowStockThreshold *int    `json:"low_stock_threshold"`
}

// Validate checks only the fields supplied in the patch.
func (c UpdateProductCommand) Validate() error {
	if err := validateName(c.Name, false); err != nil {
		return err
	}
	if err := validateDescription(c.Description, false); err != nil {
		return err
	}
	if c.StockQuantity != nil && *c.StockQuantity < 0 {
		return &ValidationError{Message: "Stock quantity cannot be negative"}
	}
	if c.LowStockThreshold != nil && *c.LowStockThreshold < 0 {
		return &ValidationError{Message: "Low stock threshold cannot be negative"}
	}
	return nil
}

// Patch converts a validated command into the store-level patch shape.
func (c UpdateProductCommand) Patch() ProductPatch {
	patch := ProductPatch{
		StockQuantity:     c.StockQuantity,
		LowStockThreshold: c.LowStockThreshold,
	}
	if c.Name != nil {
		trimmed := strings.TrimSpace(*c.Name)
		patch.Name = &trimmed
	}
	if c.Description != nil {
		trimmed := strings.TrimSpace(*c.Description)
		patch.Description = &trimmed
	}
	return patch
}

// AdjustStockCommand is the typed form of an add-stock or remove-stock request.
type AdjustStockCommand struct {
	Quantity *int `json:"quantity"`
}

// Validate requires a strictly positive quantity.
func (c AdjustStockCommand) Validate() error {
	if c.Quantity == nil || *c.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

func validateName(name *string, required bool) error {
	if name == nil {
		if required {
			return &ValidationError{Message: "Product name is required"}
		}
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return &ValidationError{Message: "Product name is required"}
	}
	if len(trimmed) > maxNameLength {
		return &ValidationError{Message: "Product name cannot exceed 100 characters"}
	}
	return nil
}

func validateDescription(description *string, required bool) error {
	if description == nil {
		if required {
			return &ValidationError{Message: "Product description is required"}
		}
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return &ValidationError{Message: "Product description is required"}
	}
	if len(trimmed) > maxDescriptionLength {
		return &ValidationError{Message: "Description cannot exceed 500 characters"}
	}
	return nil
}
