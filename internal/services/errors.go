// internal/services/errors.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NotFoundError reports a missing Customer, Product, Order or Supplier.
// Resource holds the lowercase entity name used as i18n key prefix.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ValidationError reports malformed input rejected before any write.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InsufficientStockError reports that a requested quantity exceeds the
// available stock for a named product.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %s available, %s requested",
		e.ProductName, e.Available.String(), e.Requested.String())
}

// ConflictError reports a deletion blocked by existing dependents.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}
