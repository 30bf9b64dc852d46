// internal/services/customer_service.go
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

type CustomerService struct {
	db *gorm.DB
}

type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=255"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,french_phone"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

type UpdateCustomerRequest struct {
	Name    string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,french_phone"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

func (s *CustomerService) CreateCustomer(req *CreateCustomerRequest) (*models.Customer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("validation failed: %v", err)}
	}

	customer := &models.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Notes:   req.Notes,
	}

	if err := s.db.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return customer, nil
}

func (s *CustomerService) GetCustomer(id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "customer", ID: id.String()}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &customer, nil
}

func (s *CustomerService) UpdateCustomer(id uuid.UUID, req *UpdateCustomerRequest) (*models.Customer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("validation failed: %v", err)}
	}

	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "customer", ID: id.String()}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
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
	if req.Notes != "" {
		updates["notes"] = req.Notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(&customer).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update customer: %w", err)
		}
	}

	return &customer, nil
}

// DeleteCustomer refuses to sever order history: a customer with any
// order, whatever its status, stays on file as audit trail.
func (s *CustomerService) DeleteCustomer(id uuid.UUID) error {
	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "customer", ID: id.String()}
		}
		return fmt.Errorf("database error: %w", err)
	}

	var orderCount int64
	if err := s.db.Model(&models.Order{}).
		Where("customer_id = ?", id).
		Count(&orderCount).Error; err != nil {
		return fmt.Errorf("failed to check orders: %w", err)
	}

	if orderCount > 0 {
		return &ConflictError{Message: "cannot delete a customer that still has orders"}
	}

	if err := s.db.Delete(&customer).Error; err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	return nil
}

func (s *CustomerService) SearchCustomers(params utils.PaginationParams) ([]models.Customer, int64, error) {
	query := s.db.Model(&models.Customer{})

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR phone LIKE ?", searchTerm, "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var customers []models.Customer
	if err := query.Find(&customers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch customers: %w", err)
	}

	return customers, total, nil
}
