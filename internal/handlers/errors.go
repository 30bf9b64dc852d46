// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/lamaree/lamaree-backend/internal/i18n"
	"github.com/lamaree/lamaree-backend/internal/services"
	"github.com/lamaree/lamaree-backend/internal/utils"
)

// respondServiceError translates a service error into the matching HTTP
// response. Unrecognized errors become a 500 without leaking internals.
func respondServiceError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		utils.NotFoundResponse(c, notFound.Resource)
		return
	}

	var insufficient *services.InsufficientStockError
	if errors.As(err, &insufficient) {
		message := i18n.T(lang, i18n.KeyOrderInsufficientStock,
			insufficient.ProductName, insufficient.Available.String(), insufficient.Requested.String())
		utils.InsufficientStockResponse(c, message, gin.H{
			"product_id":   insufficient.ProductID,
			"product_name": insufficient.ProductName,
			"available":    insufficient.Available,
			"requested":    insufficient.Requested,
		})
		return
	}

	var validation *services.ValidationError
	if errors.As(err, &validation) {
		utils.BadRequestResponse(c, validation.Message, nil)
		return
	}

	var conflict *services.ConflictError
	if errors.As(err, &conflict) {
		utils.ConflictResponse(c, conflict.Message)
		return
	}

	utils.InternalErrorResponse(c, "")
}
