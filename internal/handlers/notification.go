// internal/handlers/notification.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lamaree/lamaree-backend/internal/services"
	"github.com/lamaree/lamaree-backend/internal/utils"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GET /sms-logs
func (h *NotificationHandler) GetSMSLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	listParams := services.ListSMSLogParams{
		Page:  params.Page,
		Limit: params.Limit,
	}

	if orderIDStr := c.Query("order_id"); orderIDStr != "" {
		if orderID, err := uuid.Parse(orderIDStr); err == nil {
			listParams.OrderID = &orderID
		}
	}

	if successStr := c.Query("success"); successStr != "" {
		if success, err := strconv.ParseBool(successStr); err == nil {
			listParams.Success = &success
		}
	}

	logs, total, err := h.notificationService.ListLogs(listParams)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(logs, total, params)
	utils.PaginatedResponse(c, result)
}
