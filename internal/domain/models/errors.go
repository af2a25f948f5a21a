package models

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that no product exists for the given id.
var ErrNotFound = errors.New("product not found")

// ErrInvalidQuantity reports a non-positive stock adjustment quantity.
var ErrInvalidQuantity = errors.New("quantity must be a positive number")

// ValidationError reports rejected input fields.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// InsufficientStockError reports a removal larger than the available stock.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock. Available: %d, Requested: %d", e.Available, e.Requested)
}

// StoreError wraps persistence faults whose detail must not leak to callers.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }
