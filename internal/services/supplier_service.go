// internal/services/supplier_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lamaree/lamaree-backend/internal/models"
	"github.com/lamaree/lamaree-backend/internal/utils"
)

type SupplierService struct {
	db *gorm.DB
}

type CreateSupplierRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	ContactName string `json:"contact_name,omitempty"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,french_phone"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Address     string `json:"address,omitempty"`
}

type UpdateSupplierRequest struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	ContactName string `json:"contact_name,omitempty"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,french_phone"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Address     string `json:"address,omitempty"`
}

func NewSupplierService(db *gorm.DB) *SupplierService {
	return &SupplierService{db: db}
}

func (s *SupplierService) CreateSupplier(req *CreateSupplierRequest) (*models.Supplier, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("validation failed: %v", err)}
	}

	supplier := &models.Supplier{
		Name:        req.Name,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
	}

	if err := s.db.Create(supplier).Error; err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}

	return supplier, nil
}

func (s *SupplierService) GetSupplier(id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := s.db.Preload("Products").First(&supplier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "supplier", ID: id.String()}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &supplier, nil
}

func (s *SupplierService) UpdateSupplier(id uuid.UUID, req *UpdateSupplierRequest) (*models.Supplier, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("validation failed: %v", err)}
	}

	var supplier models.Supplier
	if err := s.db.First(&supplier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "supplier", ID: id.String()}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.ContactName != "" {
		updates["contact_name"] = req.ContactName
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}

	if len(updates) > 0 {
		if err := s.db.Model(&supplier).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update supplier: %w", err)
		}
	}

	return &supplier, nil
}

// DeleteSupplier only succeeds for suppliers that no longer own any
// product.
func (s *SupplierService) DeleteSupplier(id uuid.UUID) error {
	var supplier models.Supplier
	if err := s.db.First(&supplier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "supplier", ID: id.String()}
		}
		return fmt.Errorf("database error: %w", err)
	}

	var productCount int64
	if err := s.db.Model(&models.Product{}).
		Where("supplier_id = ?", id).
		Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to check products: %w", err)
	}

	if productCount > 0 {
		return &ConflictError{Message: "cannot delete a supplier that still has products"}
	}

	if err := s.db.Delete(&supplier).Error; err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}

	return nil
}

func (s *SupplierService) SearchSuppliers(params utils.PaginationParams) ([]models.Supplier, int64, error) {
	query := s.db.Model(&models.Supplier{})

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count suppliers: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var suppliers []models.Supplier
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch suppliers: %w", err)
	}

	return suppliers, total, nil
}
