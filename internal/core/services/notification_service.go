package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
	portsrepo "github.com/najmfleet/employee_requests_app/internal/core/ports/repositories"
	portssvc "github.com/najmfleet/employee_requests_app/internal/core/ports/services"
	"github.com/najmfleet/employee_requests_app/internal/dto"
	"github.com/najmfleet/employee_requests_app/internal/middleware"
)

// NotificationService lists and mutates per-employee notifications.
type NotificationService struct {
	notificationRepo portsrepo.NotificationRepositoryFacade
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo portsrepo.NotificationRepositoryFacade) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

var _ portssvc.NotificationSvcFacade = (*NotificationService)(nil)

// Emit inserts a notification outside any caller transaction. Review-path
// notifications bypass this and go through CreateNotificationTx instead so
// they commit with the state transition.
func (s *NotificationService) Emit(ctx context.Context, employeeID int64, requestID *int64, kind domain.NotificationKind, title, message string) error {
	n := &domain.Notification{
		EmployeeID: employeeID,
		RequestID:  requestID,
		Kind:       kind,
		Title:      title,
		Message:    message,
	}
	if err := s.notificationRepo.CreateNotification(ctx, n); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to emit notification",
			slog.Int64("employee_id", employeeID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to emit notification: %w", err)
	}
	return nil
}

// ListNotifications returns a page ordered newest first with the unread count.
func (s *NotificationService) ListNotifications(ctx context.Context, employeeID int64, page, perPage int) ([]domain.Notification, dto.NotificationPagination, error) {
	items, total, unread, err := s.notificationRepo.ListNotifications(ctx, employeeID, page, perPage)
	if err != nil {
		return nil, dto.NotificationPagination{}, err
	}
	return items, dto.NewNotificationPagination(page, perPage, total, unread), nil
}

// MarkRead flips one owned notification; false when no row matched.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, employeeID int64) (bool, error) {
	return s.notificationRepo.MarkNotificationRead(ctx, notificationID, employeeID)
}

// MarkAllRead flips every unread notification for the employee.
func (s *NotificationService) MarkAllRead(ctx context.Context, employeeID int64) (int64, error) {
	return s.notificationRepo.MarkAllNotificationsRead(ctx, employeeID)
}
