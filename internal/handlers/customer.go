// internal/handlers/customer.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lamaree/lamaree-backend/internal/i18n"
	"github.com/lamaree/lamaree-backend/internal/services"
	"github.com/lamaree/lamaree-backend/internal/utils"
)

type CustomerHandler struct {
	customerService *services.CustomerService
	orderService    *services.OrderService
}

func NewCustomerHandler(customerService *services.CustomerService, orderService *services.OrderService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		orderService:    orderService,
	}
}

// GET /customers
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	customers, total, err := h.customerService.SearchCustomers(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(customers, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	customer, err := h.customerService.CreateCustomer(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCustomerCreated),
		"customer": customer,
	})
}

// GET /customers/:id
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid customer ID", nil)
		return
	}

	customer, err := h.customerService.GetCustomer(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"customer": customer})
}

// GET /customers/:id/orders
func (h *CustomerHandler) GetCustomerOrders(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid customer ID", nil)
		return
	}

	if _, err := h.customerService.GetCustomer(id); err != nil {
		respondServiceError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	orders, total, err := h.orderService.SearchOrders(services.OrderSearchParams{
		PaginationParams: params,
		CustomerID:       &id,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(orders, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /customers/:id
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid customer ID", nil)
		return
	}

	var req services.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	customer, err := h.customerService.UpdateCustomer(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCustomerUpdated),
		"customer": customer,
	})
}

// DELETE /customers/:id
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid customer ID", nil)
		return
	}

	if err := h.customerService.DeleteCustomer(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCustomerDeleted),
	})
}
