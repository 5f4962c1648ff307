package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/najmfleet/employee_requests_app/internal/core/ports/services"
	"github.com/najmfleet/employee_requests_app/internal/dto"
)

// NotificationHandler serves the per-employee notification feed.
type NotificationHandler struct {
	notificationService portssvc.NotificationSvcFacade
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService portssvc.NotificationSvcFacade) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// registerNotificationRoutes sets up the authenticated notification routes.
func registerNotificationRoutes(rg *gin.RouterGroup, notificationService portssvc.NotificationSvcFacade) {
	h := NewNotificationHandler(notificationService)

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.PUT("/:id/read", h.MarkRead)
		notifications.PUT("/mark-all-read", h.MarkAllRead)
	}
}

// List godoc
// @Summary List own notifications
// @Description Returns the caller's notifications, newest first, with the unread count.
// @Tags notifications
// @Produce json
// @Param page query int false "Page"
// @Param per_page query int false "Page size"
// @Success 200 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}
	page, perPage := parsePagination(c)

	items, pagination, err := h.notificationService.ListNotifications(c.Request.Context(), employee.ID, page, perPage)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.NotificationListResponse{
		Notifications: items,
		Pagination:    pagination,
	}))
}

// MarkRead godoc
// @Summary Mark one notification as read
// @Tags notifications
// @Produce json
// @Param id path int true "Notification id"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	updated, err := h.notificationService.MarkRead(c.Request.Context(), id, employee.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, dto.Fail("الإشعار غير موجود", "NOT_FOUND"))
		return
	}
	c.JSON(http.StatusOK, dto.OKMessage("تم تحديد الإشعار كمقروء", nil))
}

// MarkAllRead godoc
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Security BearerAuth
// @Router /notifications/mark-all-read [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}

	count, err := h.notificationService.MarkAllRead(c.Request.Context(), employee.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMessage("تم تحديد جميع الإشعارات كمقروءة", gin.H{"updated_count": count}))
}
