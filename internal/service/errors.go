package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrValidation    = errors.New("validation")   // 400
	ErrNotFound      = errors.New("not found")    // 404
	ErrForbidden     = errors.New("forbidden")    // 403
	ErrUnauthorized  = errors.New("unauthorized") // 401
	ErrEmptyOrder    = errors.New("no order items")
	ErrPaymentBridge = errors.New("payment bridge")

	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError names the offending product and what was left
// so callers can react programmatically, not just display a string.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product '%s' is out of stock or does not have enough quantity. Available: %d", e.Name, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
