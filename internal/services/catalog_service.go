// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lamaree/lamaree-backend/internal/models"
	"github.com/lamaree/lamaree-backend/internal/utils"
)

type CatalogService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Name              string          `json:"name" validate:"required,min=2,max=255"`
	Price             decimal.Decimal `json:"price" validate:"required"`
	Stock             decimal.Decimal `json:"stock"`
	Unit              string          `json:"unit" validate:"required,max=20"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	Tags              []string        `json:"tags,omitempty"`
	SupplierID        *uuid.UUID      `json:"supplier_id,omitempty"`
}

type UpdateProductRequest struct {
	Name              string           `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	Stock             *decimal.Decimal `json:"stock,omitempty"`
	Unit              string           `json:"unit,omitempty" validate:"omitempty,max=20"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold,omitempty"`
	Tags              []string         `json:"tags,omitempty"`
	SupplierID        *uuid.UUID       `json:"supplier_id,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	SupplierID *uuid.UUID `json:"supplier_id,omitempty"`
	LowStock   *bool      `json:"low_stock,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("validation failed: %v", err)}
	}

	if req.Price.IsNegative() {
		return nil, &ValidationError{Message: "price must not be negative"}
	}
	if req.Stock.IsNegative() {
		return nil, &ValidationError{Message: "stock must not be negative"}
	}
	if req.LowStockThreshold.IsNegative() {
		return nil, &ValidationError{Message: "low stock threshold must not be negative"}
	}

	if req.SupplierID != nil {
		var supplier models.Supplier
		if err := s.db.First(&supplier, "id = ?", *req.SupplierID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Resource: "supplier", ID: req.SupplierID.String()}
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	product := &models.Product{
		Name:              req.Name,
		Price:             req.Price,
		Stock:             req.Stock,
		Unit:              req.Unit,
		LowStockThreshold: req.LowStockThreshold,
		Tags:              req.Tags,
		SupplierID:        req.SupplierID,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (s *CatalogService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Supplier").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "product", ID: id.String()}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

// UpdateProduct applies a partial catalog edit. Stock set through here
// is the direct administrative path; it bypasses the order engine but
// still may not go below zero.
func (s *CatalogService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("validation failed: %v", err)}
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "product", ID: id.String()}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, &ValidationError{Message: "price must not be negative"}
		}
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		if req.Stock.IsNegative() {
			return nil, &ValidationError{Message: "stock must not be negative"}
		}
		updates["stock"] = *req.Stock
	}
	if req.Unit != "" {
		updates["unit"] = req.Unit
	}
	if req.LowStockThreshold != nil {
		if req.LowStockThreshold.IsNegative() {
			return nil, &ValidationError{Message: "low stock threshold must not be negative"}
		}
		updates["low_stock_threshold"] = *req.LowStockThreshold
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(req.Tags)
	}
	if req.SupplierID != nil {
		var supplier models.Supplier
		if err := s.db.First(&supplier, "id = ?", *req.SupplierID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Resource: "supplier", ID: req.SupplierID.String()}
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
		updates["supplier_id"] = *req.SupplierID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	s.db.Preload("Supplier").First(&product, "id = ?", id)
	return &product, nil
}

// DeleteProduct removes a product from the catalog. Products referenced
// by any order item are part of the retained order history and cannot
// be deleted.
func (s *CatalogService) DeleteProduct(id uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "product", ID: id.String()}
		}
		return fmt.Errorf("database error: %w", err)
	}

	var itemCount int64
	if err := s.db.Model(&models.OrderItem{}).
		Where("product_id = ?", id).
		Count(&itemCount).Error; err != nil {
		return fmt.Errorf("failed to check order items: %w", err)
	}

	if itemCount > 0 {
		return &ConflictError{Message: "cannot delete a product referenced by existing orders"}
	}

	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

func (s *CatalogService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Supplier")

	if params.SupplierID != nil {
		query = query.Where("supplier_id = ?", *params.SupplierID)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", searchTerm)
	}

	if params.LowStock != nil && *params.LowStock {
		query = query.Where("stock <= low_stock_threshold")
	}

	if len(params.Tags) > 0 {
		query = query.Where("tags && ?", params.Tags)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "price", "stock"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// GetLowStockProducts lists products at or below their restock threshold.
func (s *CatalogService) GetLowStockProducts(limit int) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("stock <= low_stock_threshold").
		Order("stock ASC").
		Limit(limit).
		Preload("Supplier").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch low stock products: %w", err)
	}
	return products, nil
}

// DecrementStock atomically takes qty off a product's stock within the
// caller's transaction. The condition makes the sufficiency check and
// the write a single statement; it reports false when available stock
// was below qty and nothing was written.
func (s *CatalogService) DecrementStock(tx *gorm.DB, productID uuid.UUID, qty decimal.Decimal) (bool, error) {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, fmt.Errorf("failed to decrement stock: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// IncrementStock puts qty back onto a product's stock within the
// caller's transaction.
func (s *CatalogService) IncrementStock(tx *gorm.DB, productID uuid.UUID, qty decimal.Decimal) error {
	res := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to increment stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "product", ID: productID.String()}
	}
	return nil
}
