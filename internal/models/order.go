// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a frozen snapshot of a sale at the moment it was taken: the
// total and the per-item prices are never recomputed from the catalog.
type Order struct {
	BaseModel
	CustomerID uuid.UUID       `json:"customer_id" gorm:"type:uuid;not null;index"`
	Status     OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Total      decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	Notes      string          `json:"notes,omitempty" gorm:"type:text"`

	// Set exactly once, when the items' quantities are put back on
	// stock after a cancellation or deletion. Guards restoring twice.
	StockRestoredAt *time.Time `json:"stock_restored_at,omitempty"`

	// Relationships
	Customer Customer    `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Items    []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem carries its own name, unit and price snapshot so later
// catalog edits do not alter historical order value.
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID       `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index"`
	ProductName string          `json:"product_name" gorm:"size:255;not null"`
	Unit        string          `json:"unit" gorm:"size:20;not null"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(10,3);not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
}
