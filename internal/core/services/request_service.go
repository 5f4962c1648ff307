package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/najmfleet/employee_requests_app/internal/apperrors"
	"github.com/najmfleet/employee_requests_app/internal/core/domain"
	portsrepo "github.com/najmfleet/employee_requests_app/internal/core/ports/repositories"
	portssvc "github.com/najmfleet/employee_requests_app/internal/core/ports/services"
	"github.com/najmfleet/employee_requests_app/internal/core/ports/storage"
	"github.com/najmfleet/employee_requests_app/internal/dto"
	"github.com/najmfleet/employee_requests_app/internal/middleware"
	"github.com/najmfleet/employee_requests_app/internal/utils"
)

// RequestService is the business core of the request lifecycle: creation
// rules per type, the pending edit window, attachment orchestration, review
// transitions and the liability written on advance approval.
type RequestService struct {
	requestRepo      portsrepo.RequestRepositoryWithTx
	employeeRepo     portsrepo.EmployeeRepositoryFacade
	vehicleRepo      portsrepo.VehicleRepositoryFacade
	notificationRepo portsrepo.NotificationRepositoryFacade
	liabilityRepo    portsrepo.LiabilityRepositoryFacade
	local            storage.LocalStore
	mirror           storage.RemoteMirror
	analytics        *utils.PosthogClientWrapper

	// advanceCeiling caps active liabilities plus a new advance request.
	// Zero disables the check.
	advanceCeiling decimal.Decimal
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	repos *portsrepo.RepositoryProvider,
	local storage.LocalStore,
	mirror storage.RemoteMirror,
	analytics *utils.PosthogClientWrapper,
	advanceCeiling decimal.Decimal,
) *RequestService {
	return &RequestService{
		requestRepo:      repos.RequestRepo,
		employeeRepo:     repos.EmployeeRepo,
		vehicleRepo:      repos.VehicleRepo,
		notificationRepo: repos.NotificationRepo,
		liabilityRepo:    repos.LiabilityRepo,
		local:            local,
		mirror:           mirror,
		analytics:        analytics,
		advanceCeiling:   advanceCeiling,
	}
}

var _ portssvc.RequestSvcFacade = (*RequestService)(nil)

// typeCategory maps a request type to its attachment subtree; the same value
// doubles as the remote folder type tag.
func typeCategory(t domain.RequestType) storage.Category {
	switch t {
	case domain.TypeInvoice:
		return storage.CategoryInvoices
	case domain.TypeAdvancePayment:
		return storage.CategoryAdvancePayments
	case domain.TypeCarWash:
		return storage.CategoryCarWash
	default:
		return storage.CategoryCarInspections
	}
}

// --- creation ---

// CreateGeneric validates the type-specific subset of details and persists
// the request with its extension in one transaction.
func (s *RequestService) CreateGeneric(ctx context.Context, owner *domain.Employee, req dto.CreateRequestRequest) (*domain.Request, error) {
	reqType := domain.RequestType(strings.ToUpper(req.Type))
	if !reqType.Valid() {
		return nil, fmt.Errorf("%w: unknown request type %q", apperrors.ErrValidation, req.Type)
	}

	request := s.newPendingRequest(owner, reqType, req.Title, req.Description, req.Amount)
	var vehicle *domain.Vehicle

	switch reqType {
	case domain.TypeInvoice:
		if strings.TrimSpace(req.Details.VendorName) == "" {
			return nil, fmt.Errorf("%w: vendor_name is required", apperrors.ErrValidation)
		}
		request.Invoice = &domain.InvoiceExtension{
			VendorName:  req.Details.VendorName,
			InvoiceDate: dateOnlyPtr(req.Details.InvoiceDate),
		}

	case domain.TypeAdvancePayment:
		if req.Details.RequestedAmount == nil {
			return nil, fmt.Errorf("%w: requested_amount is required", apperrors.ErrValidation)
		}
		ext, err := s.buildAdvanceExtension(owner, *req.Details.RequestedAmount, req.Details.Reason, req.Details.Installments)
		if err != nil {
			return nil, err
		}
		if err := s.checkAdvanceCeiling(ctx, owner.ID, ext.RequestedAmount); err != nil {
			return nil, err
		}
		request.Advance = ext
		request.Amount = &ext.RequestedAmount

	case domain.TypeCarWash:
		if req.Details.VehicleID == nil {
			return nil, fmt.Errorf("%w: vehicle_id is required", apperrors.ErrValidation)
		}
		serviceType := domain.CarWashServiceType(strings.ToUpper(req.Details.ServiceType))
		if !serviceType.Valid() {
			return nil, fmt.Errorf("%w: invalid service_type %q", apperrors.ErrValidation, req.Details.ServiceType)
		}
		var err error
		if vehicle, err = s.resolveVehicle(ctx, *req.Details.VehicleID); err != nil {
			return nil, err
		}
		request.CarWash = &domain.CarWashExtension{
			VehicleID:     vehicle.ID,
			ServiceType:   serviceType,
			ScheduledDate: dateOnlyPtr(req.Details.ScheduledDate),
		}

	case domain.TypeCarInspection:
		if req.Details.VehicleID == nil {
			return nil, fmt.Errorf("%w: vehicle_id is required", apperrors.ErrValidation)
		}
		if strings.TrimSpace(req.Details.InspectionType) == "" {
			return nil, fmt.Errorf("%w: inspection_type is required", apperrors.ErrValidation)
		}
		var err error
		if vehicle, err = s.resolveVehicle(ctx, *req.Details.VehicleID); err != nil {
			return nil, err
		}
		request.Inspection = &domain.CarInspectionExtension{
			VehicleID:      vehicle.ID,
			InspectionType: req.Details.InspectionType,
			InspectionDate: inspectionDateOrToday(req.Details.InspectionDate),
		}
	}

	if err := s.persistNewRequest(ctx, owner, request); err != nil {
		return nil, err
	}
	return request, nil
}

// CreateAdvancePayment persists an advance request with an optional
// supporting image. A supplied image marks the submission informal and the
// liability ceiling check is skipped.
func (s *RequestService) CreateAdvancePayment(ctx context.Context, owner *domain.Employee, req dto.CreateAdvancePaymentRequest, image *storage.FileInput) (*domain.Request, error) {
	ext, err := s.buildAdvanceExtension(owner, req.RequestedAmount, req.Reason, req.Installments)
	if err != nil {
		return nil, err
	}
	if image == nil {
		if err := s.checkAdvanceCeiling(ctx, owner.ID, ext.RequestedAmount); err != nil {
			return nil, err
		}
	} else {
		if !storage.IsImage(image.Name) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedMedia, image.Name)
		}
		relPath, _, err := s.local.SaveLocal(storage.CategoryAdvancePayments, image.Name, image.Reader)
		if err != nil {
			return nil, err
		}
		ext.LocalImagePath = &relPath
	}

	request := s.newPendingRequest(owner, domain.TypeAdvancePayment, "", "", &ext.RequestedAmount)
	request.Advance = ext
	if err := s.persistNewRequest(ctx, owner, request); err != nil {
		return nil, err
	}
	s.mirrorRequestFiles(ctx, request)
	return request, nil
}

// CreateInvoice persists an invoice request; exactly one file (image or PDF)
// is required and a failed local write aborts the whole creation.
func (s *RequestService) CreateInvoice(ctx context.Context, owner *domain.Employee, req dto.CreateInvoiceRequest, file storage.FileInput) (*domain.Request, error) {
	if strings.TrimSpace(req.VendorName) == "" {
		return nil, fmt.Errorf("%w: vendor_name is required", apperrors.ErrValidation)
	}
	if !storage.IsImage(file.Name) && !storage.IsPDF(file.Name) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedMedia, file.Name)
	}

	relPath, size, err := s.local.SaveLocal(storage.CategoryInvoices, file.Name, file.Reader)
	if err != nil {
		return nil, err
	}

	request := s.newPendingRequest(owner, domain.TypeInvoice, "", req.Description, req.Amount)
	request.Invoice = &domain.InvoiceExtension{
		VendorName:     req.VendorName,
		InvoiceDate:    dateOnlyPtr(req.InvoiceDate),
		LocalImagePath: &relPath,
		FileSizeBytes:  &size,
	}
	if err := s.persistNewRequest(ctx, owner, request); err != nil {
		return nil, err
	}
	s.mirrorRequestFiles(ctx, request)
	return request, nil
}

// CreateCarWash persists a car-wash request with any subset of the five slot
// photos; missing slots may be added later while the request is pending.
func (s *RequestService) CreateCarWash(ctx context.Context, owner *domain.Employee, req dto.CreateCarWashRequest, slotFiles map[domain.MediaSlot]storage.FileInput) (*domain.Request, error) {
	serviceType := domain.CarWashServiceType(strings.ToUpper(req.ServiceType))
	if !serviceType.Valid() {
		return nil, fmt.Errorf("%w: invalid service_type %q", apperrors.ErrValidation, req.ServiceType)
	}
	vehicle, err := s.resolveVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	ext := &domain.CarWashExtension{
		VehicleID:     vehicle.ID,
		ServiceType:   serviceType,
		ScheduledDate: dateOnlyPtr(req.ScheduledDate),
	}
	for _, slot := range domain.SlotOrder {
		file, ok := slotFiles[slot]
		if !ok {
			continue
		}
		if !storage.IsImage(file.Name) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedMedia, file.Name)
		}
		relPath, size, err := s.local.SaveLocal(storage.CategoryCarWash, file.Name, file.Reader)
		if err != nil {
			return nil, err
		}
		ext.Media = append(ext.Media, domain.CarWashMedia{Slot: slot, LocalPath: &relPath, FileSizeBytes: &size})
	}

	request := s.newPendingRequest(owner, domain.TypeCarWash, "", req.Description, nil)
	request.CarWash = ext
	if err := s.persistNewRequest(ctx, owner, request); err != nil {
		return nil, err
	}
	s.mirrorRequestFiles(ctx, request)
	return request, nil
}

// CreateCarInspection persists an empty inspection; media arrive through the
// upload endpoints afterwards.
func (s *RequestService) CreateCarInspection(ctx context.Context, owner *domain.Employee, req dto.CreateCarInspectionRequest) (*domain.Request, error) {
	if strings.TrimSpace(req.InspectionType) == "" {
		return nil, fmt.Errorf("%w: inspection_type is required", apperrors.ErrValidation)
	}
	vehicle, err := s.resolveVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	request := s.newPendingRequest(owner, domain.TypeCarInspection, "", req.Description, nil)
	request.Inspection = &domain.CarInspectionExtension{
		VehicleID:      vehicle.ID,
		InspectionType: req.InspectionType,
		InspectionDate: inspectionDateOrToday(req.InspectionDate),
	}
	if err := s.persistNewRequest(ctx, owner, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestService) newPendingRequest(owner *domain.Employee, t domain.RequestType, title, description string, amount *decimal.Decimal) *domain.Request {
	if strings.TrimSpace(title) == "" {
		title = t.DisplayNameAr()
	}
	return &domain.Request{
		EmployeeID:  owner.ID,
		Type:        t,
		Status:      domain.StatusPending,
		Title:       title,
		Description: description,
		Amount:      amount,
	}
}

func (s *RequestService) buildAdvanceExtension(owner *domain.Employee, requested decimal.Decimal, reason string, installments *int) (*domain.AdvancePaymentExtension, error) {
	if !requested.IsPositive() {
		return nil, fmt.Errorf("%w: requested_amount must be positive", apperrors.ErrValidation)
	}
	ext := &domain.AdvancePaymentExtension{
		EmployeeName:    owner.Name,
		EmployeeCode:    owner.EmployeeCode,
		NationalID:      owner.NationalID,
		JobTitle:        derefOrEmpty(owner.JobTitle),
		DepartmentName:  derefOrEmpty(owner.DepartmentName),
		RequestedAmount: requested,
		RemainingAmount: requested,
	}
	if reason != "" {
		ext.Reason = &reason
	}
	if installments != nil {
		if *installments <= 0 {
			return nil, fmt.Errorf("%w: installments must be positive", apperrors.ErrValidation)
		}
		ext.Installments = installments
		amount := domain.DeriveInstallmentAmount(requested, *installments)
		ext.InstallmentAmount = &amount
	}
	return ext, nil
}

func (s *RequestService) checkAdvanceCeiling(ctx context.Context, employeeID int64, requested decimal.Decimal) error {
	if !s.advanceCeiling.IsPositive() {
		return nil
	}
	outstanding, err := s.liabilityRepo.SumActiveLiabilities(ctx, employeeID)
	if err != nil {
		return err
	}
	if outstanding.Add(requested).GreaterThan(s.advanceCeiling) {
		return fmt.Errorf("%w: outstanding liabilities plus the requested amount exceed the allowed ceiling", apperrors.ErrValidation)
	}
	return nil
}

func (s *RequestService) resolveVehicle(ctx context.Context, vehicleID int64) (*domain.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindVehicleByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnknownVehicle
		}
		return nil, err
	}
	return vehicle, nil
}

// persistNewRequest writes the aggregate, emits the submission notification
// and records the analytics event. Notification failures are logged, not
// propagated.
func (s *RequestService) persistNewRequest(ctx context.Context, owner *domain.Employee, request *domain.Request) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requestRepo.CreateRequest(ctx, request); err != nil {
		logger.Error("Request creation failed", slog.String("type", string(request.Type)), slog.String("error", err.Error()))
		return err
	}

	n := &domain.Notification{
		EmployeeID: owner.ID,
		RequestID:  &request.ID,
		Kind:       domain.NotifyInfo,
		Title:      domain.CreatedTitleAr,
		Message:    domain.CreatedMessageAr(request.Type, request.ID),
	}
	if err := s.notificationRepo.CreateNotification(ctx, n); err != nil {
		logger.Warn("Submission notification failed", slog.Int64("request_id", request.ID), slog.String("error", err.Error()))
	}

	s.analytics.Enqueue(strconv.FormatInt(owner.ID, 10), "request_created", map[string]any{
		"request_id":   request.ID,
		"request_type": string(request.Type),
	})
	logger.Info("Request created", slog.Int64("request_id", request.ID), slog.String("type", string(request.Type)))
	return nil
}

// --- reads ---

func (s *RequestService) GetRequest(ctx context.Context, requestID int64, ownerID *int64) (*domain.Request, error) {
	return s.requestRepo.FindRequestByID(ctx, requestID, ownerID)
}

func (s *RequestService) ListRequests(ctx context.Context, filter portsrepo.RequestListFilter, page, perPage int) ([]domain.Request, int64, error) {
	return s.requestRepo.ListRequests(ctx, filter, page, perPage)
}

func (s *RequestService) Statistics(ctx context.Context, ownerID int64) (dto.RequestStatisticsResponse, error) {
	counts, err := s.requestRepo.CountRequestsByStatus(ctx, ownerID)
	if err != nil {
		return dto.RequestStatisticsResponse{}, err
	}
	stats := dto.RequestStatisticsResponse{
		Pending:  counts[domain.StatusPending],
		Approved: counts[domain.StatusApproved],
		Rejected: counts[domain.StatusRejected],
	}
	for _, c := range counts {
		stats.Total += c
	}
	return stats, nil
}

// --- review ---

// ApproveRequest transitions a pending request to approved under the row
// lock. For advance payments the liability row and the owner notification
// commit in the same transaction as the transition.
func (s *RequestService) ApproveRequest(ctx context.Context, reviewerID, requestID int64, adminNotes string) (*domain.Request, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.requestRepo.Rollback(ctx, tx) }()

	request, err := s.requestRepo.FindRequestForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}
	if !request.IsPending() {
		return nil, apperrors.ErrAlreadyReviewed
	}

	now := time.Now().UTC()
	request.Status = domain.StatusApproved
	request.ReviewerID = &reviewerID
	request.ReviewedAt = &now
	if adminNotes != "" {
		request.AdminNotes = &adminNotes
	}
	if err := s.requestRepo.ReviewRequest(ctx, tx, request); err != nil {
		return nil, err
	}

	if request.Type == domain.TypeAdvancePayment && request.Advance != nil {
		liability := &domain.Liability{
			EmployeeID:      request.EmployeeID,
			Type:            domain.LiabilityAdvanceRepayment,
			Amount:          request.Advance.RequestedAmount,
			PaidAmount:      decimal.Zero,
			RemainingAmount: request.Advance.RequestedAmount,
			Description:     fmt.Sprintf("%s - طلب #%d", request.Type.DisplayNameAr(), request.ID),
			SourceRequestID: &request.ID,
			Status:          domain.LiabilityActive,
			CreatedBy:       &reviewerID,
		}
		if err := s.liabilityRepo.CreateLiabilityTx(ctx, tx, liability); err != nil {
			return nil, err
		}
	}

	n := &domain.Notification{
		EmployeeID: request.EmployeeID,
		RequestID:  &request.ID,
		Kind:       domain.NotifyApproved,
		Title:      domain.ApprovedTitleAr,
		Message:    domain.ApprovedMessageAr(request.Type),
	}
	if err := s.notificationRepo.CreateNotificationTx(ctx, tx, n); err != nil {
		return nil, err
	}

	if err := s.requestRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.analytics.Enqueue(strconv.FormatInt(reviewerID, 10), "request_approved", map[string]any{
		"request_id":   request.ID,
		"request_type": string(request.Type),
	})
	logger.Info("Request approved", slog.Int64("request_id", request.ID), slog.Int64("reviewer_id", reviewerID))
	return request, nil
}

// RejectRequest transitions a pending request to rejected. The rejection
// reason is mandatory and is appended to the owner notification.
func (s *RequestService) RejectRequest(ctx context.Context, reviewerID, requestID int64, rejectionReason string) (*domain.Request, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(rejectionReason) == "" {
		return nil, fmt.Errorf("%w: rejection_reason is required", apperrors.ErrValidation)
	}

	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.requestRepo.Rollback(ctx, tx) }()

	request, err := s.requestRepo.FindRequestForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}
	if !request.IsPending() {
		return nil, apperrors.ErrAlreadyReviewed
	}

	now := time.Now().UTC()
	request.Status = domain.StatusRejected
	request.ReviewerID = &reviewerID
	request.ReviewedAt = &now
	request.RejectionReason = &rejectionReason
	if err := s.requestRepo.ReviewRequest(ctx, tx, request); err != nil {
		return nil, err
	}

	n := &domain.Notification{
		EmployeeID: request.EmployeeID,
		RequestID:  &request.ID,
		Kind:       domain.NotifyRejected,
		Title:      domain.RejectedTitleAr,
		Message:    domain.RejectedMessageAr(request.Type, rejectionReason),
	}
	if err := s.notificationRepo.CreateNotificationTx(ctx, tx, n); err != nil {
		return nil, err
	}

	if err := s.requestRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.analytics.Enqueue(strconv.FormatInt(reviewerID, 10), "request_rejected", map[string]any{
		"request_id":   request.ID,
		"request_type": string(request.Type),
	})
	logger.Info("Request rejected", slog.Int64("request_id", request.ID), slog.Int64("reviewer_id", reviewerID))
	return request, nil
}

// DeleteRequest removes an owner's pending request. Extension and media rows
// cascade; local files are retained by the attachment store.
func (s *RequestService) DeleteRequest(ctx context.Context, owner *domain.Employee, requestID int64) error {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID, &owner.ID)
	if err != nil {
		return err
	}
	if !request.IsPending() {
		return apperrors.ErrNotEditable
	}
	return s.requestRepo.DeleteRequest(ctx, requestID, owner.ID)
}

// --- collaborator reads ---

func (s *RequestService) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return s.vehicleRepo.ListActiveVehicles(ctx)
}

func (s *RequestService) ListLiabilities(ctx context.Context, employeeID int64) (dto.LiabilityListResponse, error) {
	liabilities, err := s.liabilityRepo.ListLiabilitiesByEmployee(ctx, employeeID)
	if err != nil {
		return dto.LiabilityListResponse{}, err
	}
	resp := dto.LiabilityListResponse{
		Liabilities:    liabilities,
		TotalAmount:    decimal.Zero,
		TotalRemaining: decimal.Zero,
	}
	for _, l := range liabilities {
		resp.TotalAmount = resp.TotalAmount.Add(l.Amount)
		resp.TotalRemaining = resp.TotalRemaining.Add(l.RemainingAmount)
	}
	return resp, nil
}

func (s *RequestService) FinancialSummary(ctx context.Context, employeeID int64) (dto.FinancialSummaryResponse, error) {
	active, err := s.liabilityRepo.SumActiveLiabilities(ctx, employeeID)
	if err != nil {
		return dto.FinancialSummaryResponse{}, err
	}

	pendingTotal, err := s.requestRepo.SumPendingAdvances(ctx, employeeID)
	if err != nil {
		return dto.FinancialSummaryResponse{}, err
	}

	counts, err := s.Statistics(ctx, employeeID)
	if err != nil {
		return dto.FinancialSummaryResponse{}, err
	}
	return dto.FinancialSummaryResponse{
		ActiveLiabilitiesTotal: active,
		PendingAdvancesTotal:   pendingTotal,
		RequestCounts:          counts,
	}, nil
}

// --- small helpers ---

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateOnlyPtr(d *dto.DateOnly) *time.Time {
	if d == nil || d.Time.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

func inspectionDateOrToday(d *dto.DateOnly) time.Time {
	if d != nil && !d.Time.IsZero() {
		return d.Time
	}
	return time.Now().UTC().Truncate(24 * time.Hour)
}
