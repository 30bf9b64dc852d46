// internal/services/dashboard_service.go
package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lamaree/lamaree-backend/internal/models"
)

type DashboardService struct {
	db      *gorm.DB
	catalog *CatalogService
}

type DashboardStats struct {
	TotalProducts    int64           `json:"total_products"`
	LowStockProducts int64           `json:"low_stock_products"`
	TotalCustomers   int64           `json:"total_customers"`
	TotalSuppliers   int64           `json:"total_suppliers"`
	PendingOrders    int64           `json:"pending_orders"`
	ReadyOrders      int64           `json:"ready_orders"`
	OrdersToday      int64           `json:"orders_today"`
	RevenueToday     decimal.Decimal `json:"revenue_today"`
	RevenueThisMonth decimal.Decimal `json:"revenue_this_month"`
	RecentOrders     []models.Order  `json:"recent_orders"`
}

func NewDashboardService(db *gorm.DB, catalog *CatalogService) *DashboardService {
	return &DashboardService{db: db, catalog: catalog}
}

// GetStats assembles the back-office landing page numbers. Revenue
// only counts DELIVERED orders; a cancelled order never contributes.
func (s *DashboardService) GetStats() (*DashboardStats, error) {
	stats := &DashboardStats{
		RevenueToday:     decimal.Zero,
		RevenueThisMonth: decimal.Zero,
	}
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	// Catalog statistics
	s.db.Model(&models.Product{}).Count(&stats.TotalProducts)
	s.db.Model(&models.Product{}).
		Where("stock <= low_stock_threshold").
		Count(&stats.LowStockProducts)

	// Directory statistics
	s.db.Model(&models.Customer{}).Count(&stats.TotalCustomers)
	s.db.Model(&models.Supplier{}).Count(&stats.TotalSuppliers)

	// Order statistics
	s.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPending).
		Count(&stats.PendingOrders)
	s.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusReady).
		Count(&stats.ReadyOrders)
	s.db.Model(&models.Order{}).
		Where("created_at >= ?", dayStart).
		Count(&stats.OrdersToday)

	// Revenue statistics, summed in SQL and kept as decimal end to end
	revenueToday, err := s.deliveredRevenueSince(dayStart)
	if err != nil {
		return nil, fmt.Errorf("failed to compute daily revenue: %w", err)
	}
	stats.RevenueToday = revenueToday

	revenueMonth, err := s.deliveredRevenueSince(monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly revenue: %w", err)
	}
	stats.RevenueThisMonth = revenueMonth

	// Latest activity for the landing page
	if err := s.db.Preload("Customer").Preload("Items").
		Order("created_at DESC").
		Limit(10).
		Find(&stats.RecentOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent orders: %w", err)
	}

	return stats, nil
}

func (s *DashboardService) deliveredRevenueSince(since time.Time) (decimal.Decimal, error) {
	row := s.db.Model(&models.Order{}).
		Where("status = ? AND created_at >= ?", models.OrderStatusDelivered, since).
		Select("COALESCE(SUM(total), 0)").
		Row()

	var revenue decimal.Decimal
	if err := row.Scan(&revenue); err != nil {
		return decimal.Zero, err
	}
	return revenue, nil
}

// GetLowStockAlerts returns the products sitting at or under their
// restock threshold, worst first.
func (s *DashboardService) GetLowStockAlerts() ([]models.Product, error) {
	return s.catalog.GetLowStockProducts(20)
}
