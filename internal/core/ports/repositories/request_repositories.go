package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
)

// RequestListFilter narrows request list queries. Nil fields are ignored.
type RequestListFilter struct {
	OwnerID   *int64
	Status    *domain.RequestStatus
	Type      *domain.RequestType
	VehicleID *int64
	DateFrom  *time.Time
	DateTo    *time.Time
}

// RequestReader defines read operations for the request aggregate.
type RequestReader interface {
	// FindRequestByID loads a request with its extension and media eagerly.
	// When ownerID is non-nil, a request owned by someone else is reported
	// as not found.
	FindRequestByID(ctx context.Context, requestID int64, ownerID *int64) (*domain.Request, error)

	// ListRequests returns a page ordered by created_at desc, id desc, and
	// the total row count for the filter. perPage is capped at 100.
	ListRequests(ctx context.Context, filter RequestListFilter, page, perPage int) ([]domain.Request, int64, error)

	// CountRequestsByStatus aggregates an owner's requests per status.
	CountRequestsByStatus(ctx context.Context, ownerID int64) (map[domain.RequestStatus]int64, error)

	// ListRequestsWithPendingMirrors returns requests that still have an
	// attachment without remote identifiers, oldest first, for the retry
	// sweep.
	ListRequestsWithPendingMirrors(ctx context.Context, limit int) ([]domain.Request, error)

	// SumPendingAdvances totals the requested amounts of an employee's
	// PENDING advance-payment requests.
	SumPendingAdvances(ctx context.Context, employeeID int64) (decimal.Decimal, error)
}

// RequestWriter defines write operations for the request aggregate.
type RequestWriter interface {
	// CreateRequest persists the request row and its matching extension
	// (plus any seed media rows carried on the extension) in one
	// transaction, filling generated ids on the passed aggregate.
	CreateRequest(ctx context.Context, request *domain.Request) error

	// DeleteRequest removes an owner's request with its extension and
	// media rows. Local files are retained by the attachment store.
	DeleteRequest(ctx context.Context, requestID int64, ownerID int64) error

	// SetRemoteFolder records the Drive folder ids on the request row.
	SetRemoteFolder(ctx context.Context, requestID int64, folderID, folderURL string) error
}

// RequestTxOperations are the operations that must run under the request
// row lock. Callers obtain the lock through FindRequestForUpdate inside a
// transaction started via the TransactionManager.
type RequestTxOperations interface {
	// FindRequestForUpdate locks the request row (SELECT ... FOR UPDATE)
	// and loads the aggregate eagerly.
	FindRequestForUpdate(ctx context.Context, tx pgx.Tx, requestID int64) (*domain.Request, error)

	// ReviewRequest transitions the locked row out of PENDING, stamping
	// reviewer, reviewed_at and notes/reason.
	ReviewRequest(ctx context.Context, tx pgx.Tx, request *domain.Request) error

	// UpdateRequestAmount patches the amount column on the locked request row.
	UpdateRequestAmount(ctx context.Context, tx pgx.Tx, requestID int64, amount *decimal.Decimal) error

	// DetachCarWashMedia and DetachInspectionMedia remove media rows by
	// reference only; they report whether a row was removed.
	DetachCarWashMedia(ctx context.Context, tx pgx.Tx, mediaID int64, ownerID int64) (bool, error)
	DetachInspectionMedia(ctx context.Context, tx pgx.Tx, mediaID int64, ownerID int64) (bool, error)

	// UpdateCarWashFields, UpdateInspectionFields, UpdateAdvanceFields and
	// UpdateInvoiceFields apply owner edits to the extension rows. Callers
	// hold the request row lock so an in-flight review cannot interleave.
	UpdateCarWashFields(ctx context.Context, tx pgx.Tx, extensionID int64, serviceType domain.CarWashServiceType, scheduledDate *time.Time) error
	UpdateInspectionFields(ctx context.Context, tx pgx.Tx, extensionID int64, inspectionType string, inspectionDate time.Time) error
	UpdateAdvanceFields(ctx context.Context, tx pgx.Tx, ext *domain.AdvancePaymentExtension) error
	UpdateInvoiceFields(ctx context.Context, tx pgx.Tx, ext *domain.InvoiceExtension) error

	InsertCarWashMedia(ctx context.Context, tx pgx.Tx, media *domain.CarWashMedia) error
	UpdateCarWashMedia(ctx context.Context, tx pgx.Tx, media *domain.CarWashMedia) error
	InsertInspectionMedia(ctx context.Context, tx pgx.Tx, media *domain.CarInspectionMedia) error
	UpdateInspectionMedia(ctx context.Context, tx pgx.Tx, media *domain.CarInspectionMedia) error
	UpdateInvoiceFile(ctx context.Context, tx pgx.Tx, ext *domain.InvoiceExtension) error
	UpdateAdvanceImage(ctx context.Context, tx pgx.Tx, ext *domain.AdvancePaymentExtension) error
	SetRemoteFolderTx(ctx context.Context, tx pgx.Tx, requestID int64, folderID, folderURL string) error
}

// RequestRepositoryFacade combines all request repository interfaces.
type RequestRepositoryFacade interface {
	RequestReader
	RequestWriter
}

// RequestRepositoryWithTx extends the facade with transaction capabilities.
type RequestRepositoryWithTx interface {
	RequestRepositoryFacade
	RequestTxOperations
	TransactionManager
}
