package services

import (
	"context"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
	portsrepo "github.com/najmfleet/employee_requests_app/internal/core/ports/repositories"
	"github.com/najmfleet/employee_requests_app/internal/core/ports/storage"
	"github.com/najmfleet/employee_requests_app/internal/dto"
)

// RequestSvcFacade is the business core of the request lifecycle. All
// presentation adapters call through this interface and contain no rules.
type RequestSvcFacade interface {
	// Creation. Each returns the persisted aggregate with its extension.
	CreateGeneric(ctx context.Context, owner *domain.Employee, req dto.CreateRequestRequest) (*domain.Request, error)
	CreateAdvancePayment(ctx context.Context, owner *domain.Employee, req dto.CreateAdvancePaymentRequest, image *storage.FileInput) (*domain.Request, error)
	CreateInvoice(ctx context.Context, owner *domain.Employee, req dto.CreateInvoiceRequest, file storage.FileInput) (*domain.Request, error)
	CreateCarWash(ctx context.Context, owner *domain.Employee, req dto.CreateCarWashRequest, slotFiles map[domain.MediaSlot]storage.FileInput) (*domain.Request, error)
	CreateCarInspection(ctx context.Context, owner *domain.Employee, req dto.CreateCarInspectionRequest) (*domain.Request, error)

	// Reads. ownerID non-nil scopes to the owner (foreign rows read as not
	// found); nil is the staff console view.
	GetRequest(ctx context.Context, requestID int64, ownerID *int64) (*domain.Request, error)
	ListRequests(ctx context.Context, filter portsrepo.RequestListFilter, page, perPage int) ([]domain.Request, int64, error)
	Statistics(ctx context.Context, ownerID int64) (dto.RequestStatisticsResponse, error)

	// Uploads into the pending window.
	UploadFiles(ctx context.Context, owner *domain.Employee, requestID int64, files []storage.FileInput) ([]dto.UploadedFileDescriptor, error)
	UploadInspectionImage(ctx context.Context, owner *domain.Employee, requestID int64, file storage.FileInput) (*domain.CarInspectionMedia, error)

	// Owner edits, pending window only.
	UpdateCarWash(ctx context.Context, owner *domain.Employee, requestID int64, req dto.UpdateCarWashRequest, slotFiles map[domain.MediaSlot]storage.FileInput) (*domain.Request, error)
	UpdateCarInspection(ctx context.Context, owner *domain.Employee, requestID int64, req dto.UpdateCarInspectionRequest, files []storage.FileInput) (*domain.Request, error)
	UpdateAdvancePayment(ctx context.Context, owner *domain.Employee, requestID int64, req dto.UpdateAdvancePaymentRequest, image *storage.FileInput) (*domain.Request, error)
	UpdateInvoice(ctx context.Context, owner *domain.Employee, requestID int64, req dto.UpdateInvoiceRequest, file *storage.FileInput) (*domain.Request, error)
	DeleteRequest(ctx context.Context, owner *domain.Employee, requestID int64) error

	// Admin review.
	ApproveRequest(ctx context.Context, reviewerID, requestID int64, adminNotes string) (*domain.Request, error)
	RejectRequest(ctx context.Context, reviewerID, requestID int64, rejectionReason string) (*domain.Request, error)

	// Collaborator reads surfaced through the same service.
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
	ListLiabilities(ctx context.Context, employeeID int64) (dto.LiabilityListResponse, error)
	FinancialSummary(ctx context.Context, employeeID int64) (dto.FinancialSummaryResponse, error)

	// RetryPendingMirrors re-attempts remote replication for attachments
	// whose mirror is missing or failed. Invoked by the cron sweep.
	RetryPendingMirrors(ctx context.Context) error
}
