package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
	portsrepo "github.com/najmfleet/employee_requests_app/internal/core/ports/repositories"
)

// NotificationRepository persists per-employee notifications.
type NotificationRepository struct {
	db *pgxpool.Pool
}

func newPgxNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

var _ portsrepo.NotificationRepositoryFacade = (*NotificationRepository)(nil)

const insertNotificationSQL = `
	INSERT INTO request_notifications (employee_id, request_id, notification_type, title, message, is_read)
	VALUES ($1, $2, $3, $4, $5, FALSE)
	RETURNING id, created_at;`

func insertNotification(ctx context.Context, q queryer, n *domain.Notification) error {
	err := q.QueryRow(ctx, insertNotificationSQL, n.EmployeeID, n.RequestID, n.Kind, n.Title, n.Message).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n *domain.Notification) error {
	return insertNotification(ctx, r.db, n)
}

func (r *NotificationRepository) CreateNotificationTx(ctx context.Context, tx pgx.Tx, n *domain.Notification) error {
	return insertNotification(ctx, tx, n)
}

func (r *NotificationRepository) ListNotifications(ctx context.Context, employeeID int64, page, perPage int) ([]domain.Notification, int64, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total, unread int64
	countQuery := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE NOT is_read)
		FROM request_notifications WHERE employee_id = $1;`
	if err := r.db.QueryRow(ctx, countQuery, employeeID).Scan(&total, &unread); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	listQuery := `
		SELECT id, employee_id, request_id, notification_type, title, message, is_read, read_at, created_at
		FROM request_notifications
		WHERE employee_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3;`
	rows, err := r.db.Query(ctx, listQuery, employeeID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	items := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(&n.ID, &n.EmployeeID, &n.RequestID, &n.Kind, &n.Title, &n.Message, &n.IsRead, &n.ReadAt, &n.CreatedAt)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to scan notification row: %w", err)
		}
		items = append(items, n)
	}
	if rows.Err() != nil {
		return nil, 0, 0, fmt.Errorf("error iterating notification rows: %w", rows.Err())
	}
	return items, total, unread, nil
}

func (r *NotificationRepository) MarkNotificationRead(ctx context.Context, notificationID int64, employeeID int64) (bool, error) {
	query := `
		UPDATE request_notifications SET is_read = TRUE, read_at = NOW()
		WHERE id = $1 AND employee_id = $2 AND NOT is_read;`
	tag, err := r.db.Exec(ctx, query, notificationID, employeeID)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *NotificationRepository) MarkAllNotificationsRead(ctx context.Context, employeeID int64) (int64, error) {
	query := `
		UPDATE request_notifications SET is_read = TRUE, read_at = NOW()
		WHERE employee_id = $1 AND NOT is_read;`
	tag, err := r.db.Exec(ctx, query, employeeID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}
