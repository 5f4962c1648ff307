package domain

import "time"

// NotificationKind classifies request notifications.
type NotificationKind string

const (
	NotifyApproved NotificationKind = "APPROVED"
	NotifyRejected NotificationKind = "REJECTED"
	NotifyInfo     NotificationKind = "INFO"
	NotifyReminder NotificationKind = "REMINDER"
)

// Notification is a per-employee message about a request. RequestID is a
// weak reference and may dangle after an owner delete.
type Notification struct {
	ID         int64            `json:"id"`
	EmployeeID int64            `json:"employee_id"`
	RequestID  *int64           `json:"request_id,omitempty"`
	Kind       NotificationKind `json:"notification_type"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	IsRead     bool             `json:"is_read"`
	ReadAt     *time.Time       `json:"read_at,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}
