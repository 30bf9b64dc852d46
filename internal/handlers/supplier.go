// internal/handlers/supplier.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lamaree/lamaree-backend/internal/i18n"
	"github.com/lamaree/lamaree-backend/internal/services"
	"github.com/lamaree/lamaree-backend/internal/utils"
)

type SupplierHandler struct {
	supplierService *services.SupplierService
}

func NewSupplierHandler(supplierService *services.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// GET /suppliers
func (h *SupplierHandler) GetSuppliers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	suppliers, total, err := h.supplierService.SearchSuppliers(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(suppliers, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /suppliers
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	supplier, err := h.supplierService.CreateSupplier(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeySupplierCreated),
		"supplier": supplier,
	})
}

// GET /suppliers/:id
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid supplier ID", nil)
		return
	}

	supplier, err := h.supplierService.GetSupplier(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"supplier": supplier})
}

// PUT /suppliers/:id
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid supplier ID", nil)
		return
	}

	var req services.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	supplier, err := h.supplierService.UpdateSupplier(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeySupplierUpdated),
		"supplier": supplier,
	})
}

// DELETE /suppliers/:id
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid supplier ID", nil)
		return
	}

	if err := h.supplierService.DeleteSupplier(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySupplierDeleted),
	})
}
