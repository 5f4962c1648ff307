package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
)

// NotificationRepositoryFacade persists per-employee request notifications.
type NotificationRepositoryFacade interface {
	// CreateNotification inserts a row outside any caller transaction.
	CreateNotification(ctx context.Context, n *domain.Notification) error

	// CreateNotificationTx inserts a row inside the caller's transaction so
	// review notifications commit atomically with the state transition.
	CreateNotificationTx(ctx context.Context, tx pgx.Tx, n *domain.Notification) error

	// ListNotifications returns a page ordered by created_at desc, id desc,
	// the total count and the unread count for the employee.
	ListNotifications(ctx context.Context, employeeID int64, page, perPage int) ([]domain.Notification, int64, int64, error)

	// MarkNotificationRead flips is_read for a row owned by employeeID and
	// reports whether a row changed.
	MarkNotificationRead(ctx context.Context, notificationID int64, employeeID int64) (bool, error)

	// MarkAllNotificationsRead flips every unread row for the employee and
	// returns the number updated.
	MarkAllNotificationsRead(ctx context.Context, employeeID int64) (int64, error)
}
