// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lamaree/lamaree-backend/internal/models"
	"github.com/lamaree/lamaree-backend/internal/utils"
)

// OrderService owns the order lifecycle and the stock invariant: a
// product's stock is decremented when an order is taken and restored at
// most once, on the first cancellation or deletion of that order. Every
// stock write happens in the same transaction as the order write it
// belongs to.
type OrderService struct {
	db                  *gorm.DB
	catalog             *CatalogService
	notificationService *NotificationService
}

type OrderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerID uuid.UUID          `json:"customer_id" validate:"required"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes      string             `json:"notes,omitempty"`
}

type OrderSearchParams struct {
	utils.PaginationParams
	Status     *models.OrderStatus `json:"status,omitempty"`
	CustomerID *uuid.UUID          `json:"customer_id,omitempty"`
}

func NewOrderService(db *gorm.DB, catalog *CatalogService, notificationService *NotificationService) *OrderService {
	return &OrderService{
		db:                  db,
		catalog:             catalog,
		notificationService: notificationService,
	}
}

// CreateOrder takes an order: it snapshots current catalog prices into
// the items, freezes the total, and decrements every product's stock in
// the same transaction as the order insert. Either everything commits
// or nothing does; the first item without enough stock aborts the call.
func (s *OrderService) CreateOrder(req *CreateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("validation failed: %v", err)}
	}

	for _, item := range req.Items {
		if !item.Quantity.IsPositive() {
			return nil, &ValidationError{Message: fmt.Sprintf("quantity for product %s must be positive", item.ProductID)}
		}
	}

	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", req.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "customer", ID: req.CustomerID.String()}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Stable per-product write order, so concurrent multi-item orders
	// sharing products cannot deadlock.
	items := make([]OrderItemRequest, len(req.Items))
	copy(items, req.Items)
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID.String() < items[j].ProductID.String()
	})

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(items))

		for _, item := range items {
			var product models.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Resource: "product", ID: item.ProductID.String()}
				}
				return fmt.Errorf("database error: %w", err)
			}

			ok, err := s.catalog.DecrementStock(tx, product.ID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// Re-read so the error names the stock a concurrent
				// writer may have just taken.
				var fresh models.Product
				if err := tx.First(&fresh, "id = ?", item.ProductID).Error; err == nil {
					product = fresh
				}
				return &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   product.Stock,
					Requested:   item.Quantity,
				}
			}

			total = total.Add(item.Quantity.Mul(product.Price))
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Unit:        product.Unit,
				Quantity:    item.Quantity,
				Price:       product.Price,
			})
		}

		order = &models.Order{
			CustomerID: req.CustomerID,
			Status:     models.OrderStatusPending,
			Total:      total.Round(2),
			Notes:      req.Notes,
			Items:      orderItems,
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Items").Preload("Customer").First(order, "id = ?", order.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	return order, nil
}

func (s *OrderService) GetOrder(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").Preload("Customer").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "order", ID: id.String()}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

// TransitionStatus moves an order to the given status (canonical or
// legacy spelling). Every transition is written as-is; the stock and
// notification side effects fire only on the transitions that carry
// them. The returned flag reports whether this call restored stock.
func (s *OrderService) TransitionStatus(orderID uuid.UUID, rawStatus string) (*models.Order, bool, error) {
	newStatus, err := models.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, false, &ValidationError{Message: err.Error()}
	}

	var order models.Order
	var previous models.OrderStatus
	var restored bool

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Preload("Customer").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "order", ID: orderID.String()}
			}
			return fmt.Errorf("database error: %w", err)
		}

		previous = order.Status

		if newStatus == models.OrderStatusCancelled {
			r, err := s.restoreStock(tx, &order)
			if err != nil {
				return err
			}
			restored = r
		}

		if err := tx.Model(&order).Update("status", newStatus).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		order.Status = newStatus

		return nil
	})

	if err != nil {
		return nil, false, err
	}

	if newStatus == models.OrderStatusReady && previous != models.OrderStatusReady {
		s.dispatchOrderReady(order)
	}

	return &order, restored, nil
}

// DeleteOrder removes an order and its items. Stock is restored first,
// under the same at-most-once rule as cancellation, in the same
// transaction as the deletes.
func (s *OrderService) DeleteOrder(orderID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "order", ID: orderID.String()}
			}
			return fmt.Errorf("database error: %w", err)
		}

		if _, err := s.restoreStock(tx, &order); err != nil {
			return err
		}

		if err := tx.Unscoped().Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}

		if err := tx.Unscoped().Delete(&order).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}

		return nil
	})
}

func (s *OrderService) SearchOrders(params OrderSearchParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Preload("Items").Preload("Customer")

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status", "total"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// restoreStock puts the order's quantities back on stock, once per
// order lifetime. The conditional claim on stock_restored_at is what
// makes a second cancellation, or a cancel-then-delete, a no-op even
// when two callers race on the same order.
func (s *OrderService) restoreStock(tx *gorm.DB, order *models.Order) (bool, error) {
	now := time.Now()
	res := tx.Model(&models.Order{}).
		Where("id = ? AND stock_restored_at IS NULL", order.ID).
		UpdateColumn("stock_restored_at", now)
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark stock restoration: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	items := make([]models.OrderItem, len(order.Items))
	copy(items, order.Items)
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID.String() < items[j].ProductID.String()
	})

	for _, item := range items {
		if err := s.catalog.IncrementStock(tx, item.ProductID, item.Quantity); err != nil {
			return false, err
		}
	}

	order.StockRestoredAt = &now
	return true, nil
}

// dispatchOrderReady hands the ready notification off to a detached
// goroutine. The transition has already committed; a dispatch failure
// is logged and audited by the notification service but never reaches
// the caller.
func (s *OrderService) dispatchOrderReady(order models.Order) {
	if s.notificationService == nil {
		return
	}
	go func() {
		if err := s.notificationService.SendOrderReadyNotification(&order); err != nil {
			logrus.WithError(err).WithField("order_id", order.ID).Warn("Order ready notification failed")
		}
	}()
}
