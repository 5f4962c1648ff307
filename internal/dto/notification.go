package dto

import "github.com/najmfleet/employee_requests_app/internal/core/domain"

// NotificationPagination extends the standard pagination with the unread count.
type NotificationPagination struct {
	Pagination
	UnreadCount int64 `json:"unread_count"`
}

// NewNotificationPagination derives page counts and carries the unread count.
func NewNotificationPagination(page, perPage int, total, unread int64) NotificationPagination {
	return NotificationPagination{Pagination: NewPagination(page, perPage, total), UnreadCount: unread}
}

// NotificationListResponse is the paginated notification payload.
type NotificationListResponse struct {
	Notifications []domain.Notification  `json:"notifications"`
	Pagination    NotificationPagination `json:"pagination"`
}
