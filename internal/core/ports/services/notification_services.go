package services

import (
	"context"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
	"github.com/najmfleet/employee_requests_app/internal/dto"
)

// NotificationSvcFacade lists and mutates per-employee notifications.
type NotificationSvcFacade interface {
	// Emit inserts a notification outside any caller transaction.
	Emit(ctx context.Context, employeeID int64, requestID *int64, kind domain.NotificationKind, title, message string) error

	// ListNotifications returns a page ordered by created_at desc, id desc
	// together with pagination carrying the unread count.
	ListNotifications(ctx context.Context, employeeID int64, page, perPage int) ([]domain.Notification, dto.NotificationPagination, error)

	// MarkRead flips one owned notification; false when no row matched.
	MarkRead(ctx context.Context, notificationID, employeeID int64) (bool, error)

	// MarkAllRead flips every unread notification, returning the count.
	// Idempotent: subsequent calls return zero.
	MarkAllRead(ctx context.Context, employeeID int64) (int64, error)
}
