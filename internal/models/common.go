// internal/models/common.go
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. IDs are assigned client-side in
// BeforeCreate rather than by a database default, so the schema migrates
// on any backend.
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Enums
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleStaff UserRole = "staff"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Legacy status vocabulary still found in imported data and requests from
// the old front-end. Normalized at the boundary; the legacy spellings
// never reach the database.
var legacyStatusAliases = map[string]OrderStatus{
	"EN_COURS": OrderStatusPending,
	"PRETE":    OrderStatusReady,
	"LIVREE":   OrderStatusDelivered,
	"ANNULEE":  OrderStatusCancelled,
}

// ParseOrderStatus maps a raw status value (canonical or legacy,
// case-insensitive) to its canonical form.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))

	switch OrderStatus(v) {
	case OrderStatusPending, OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(v), nil
	}

	if status, ok := legacyStatusAliases[v]; ok {
		return status, nil
	}

	return "", fmt.Errorf("unknown order status %q", raw)
}

// IsTerminal reports whether no further fulfillment work happens in this
// status.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}
