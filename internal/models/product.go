// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name              string          `json:"name" gorm:"size:255;not null;index"`
	Price             decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock             decimal.Decimal `json:"stock" gorm:"type:decimal(10,3);not null;default:0"`
	Unit              string          `json:"unit" gorm:"size:20;not null;default:'kg'"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold" gorm:"type:decimal(10,3);not null;default:0"`
	Tags              pq.StringArray  `json:"tags" gorm:"type:text[]"`
	SupplierID        *uuid.UUID      `json:"supplier_id" gorm:"type:uuid;index"`

	// Relationships
	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

// IsLowStock reports whether the product has fallen to or below its
// restock threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock.LessThanOrEqual(p.LowStockThreshold)
}
