package services_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/najmfleet/employee_requests_app/internal/apperrors"
	"github.com/najmfleet/employee_requests_app/internal/core/domain"
	portsrepo "github.com/najmfleet/employee_requests_app/internal/core/ports/repositories"
	portssvc "github.com/najmfleet/employee_requests_app/internal/core/ports/services"
	"github.com/najmfleet/employee_requests_app/internal/core/ports/storage"
	"github.com/najmfleet/employee_requests_app/internal/core/services"
	"github.com/najmfleet/employee_requests_app/internal/dto"
	"github.com/najmfleet/employee_requests_app/internal/utils"
)

// --- Mock RequestRepository (based on RequestService usage) ---

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) FindRequestByID(ctx context.Context, requestID int64, ownerID *int64) (*domain.Request, error) {
	args := m.Called(ctx, requestID, ownerID)
	var r *domain.Request
	if args.Get(0) != nil {
		r = args.Get(0).(*domain.Request)
	}
	return r, args.Error(1)
}

func (m *MockRequestRepository) ListRequests(ctx context.Context, filter portsrepo.RequestListFilter, page, perPage int) ([]domain.Request, int64, error) {
	args := m.Called(ctx, filter, page, perPage)
	var items []domain.Request
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.Request)
	}
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MockRequestRepository) CountRequestsByStatus(ctx context.Context, ownerID int64) (map[domain.RequestStatus]int64, error) {
	args := m.Called(ctx, ownerID)
	var counts map[domain.RequestStatus]int64
	if args.Get(0) != nil {
		counts = args.Get(0).(map[domain.RequestStatus]int64)
	}
	return counts, args.Error(1)
}

func (m *MockRequestRepository) ListRequestsWithPendingMirrors(ctx context.Context, limit int) ([]domain.Request, error) {
	args := m.Called(ctx, limit)
	var items []domain.Request
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.Request)
	}
	return items, args.Error(1)
}

func (m *MockRequestRepository) SumPendingAdvances(ctx context.Context, employeeID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, employeeID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRequestRepository) CreateRequest(ctx context.Context, request *domain.Request) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRequestRepository) DeleteRequest(ctx context.Context, requestID int64, ownerID int64) error {
	args := m.Called(ctx, requestID, ownerID)
	return args.Error(0)
}

func (m *MockRequestRepository) SetRemoteFolder(ctx context.Context, requestID int64, folderID, folderURL string) error {
	args := m.Called(ctx, requestID, folderID, folderURL)
	return args.Error(0)
}

func (m *MockRequestRepository) UpdateRequestAmount(ctx context.Context, tx pgx.Tx, requestID int64, amount *decimal.Decimal) error {
	args := m.Called(ctx, tx, requestID, amount)
	return args.Error(0)
}

func (m *MockRequestRepository) DetachCarWashMedia(ctx context.Context, tx pgx.Tx, mediaID int64, ownerID int64) (bool, error) {
	args := m.Called(ctx, tx, mediaID, ownerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequestRepository) DetachInspectionMedia(ctx context.Context, tx pgx.Tx, mediaID int64, ownerID int64) (bool, error) {
	args := m.Called(ctx, tx, mediaID, ownerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequestRepository) UpdateCarWashFields(ctx context.Context, tx pgx.Tx, extensionID int64, serviceType domain.CarWashServiceType, scheduledDate *time.Time) error {
	args := m.Called(ctx, tx, extensionID, serviceType, scheduledDate)
	return args.Error(0)
}

func (m *MockRequestRepository) UpdateInspectionFields(ctx context.Context, tx pgx.Tx, extensionID int64, inspectionType string, inspectionDate time.Time) error {
	args := m.Called(ctx, tx, extensionID, inspectionType, inspectionDate)
	return args.Error(0)
}

func (m *MockRequestRepository) UpdateAdvanceFields(ctx context.Context, tx pgx.Tx, ext *domain.AdvancePaymentExtension) error {
	args := m.Called(ctx, tx, ext)
	return args.Error(0)
}

func (m *MockRequestRepository) UpdateInvoiceFields(ctx context.Context, tx pgx.Tx, ext *domain.InvoiceExtension) error {
	args := m.Called(ctx, tx, ext)
	return args.Error(0)
}

func (m *MockRequestRepository) FindRequestForUpdate(ctx context.Context, tx pgx.Tx, requestID int64) (*domain.Request, error) {
	args := m.Called(ctx, tx, requestID)
	var r *domain.Request
	if args.Get(0) != nil {
		r = args.Get(0).(*domain.Request)
	}
	return r, args.Error(1)
}

func (m *MockRequestRepository) ReviewRequest(ctx context.Context, tx pgx.Tx, request *domain.Request) error {
	args := m.Called(ctx, tx, request)
	return args.Error(0)
}

func (m *MockRequestRepository) InsertCarWashMedia(ctx context.Context, tx pgx.Tx, media *domain.CarWashMedia) error {
	args := m.Called(ctx, tx, media)
	return args.Error(0)
}

func (m *MockRequestRepository) UpdateCarWashMedia(ctx context.Context, tx pgx.Tx, media *domain.CarWashMedia) error {
	args := m.Called(ctx, tx, media)
	return args.Error(0)
}

func (m *MockRequestRepository) InsertInspectionMedia(ctx context.Context, tx pgx.Tx, media *domain.CarInspectionMedia) error {
	args := m.Called(ctx, tx, media)
	return args.Error(0)
}

func (m *MockRequestRepository) UpdateInspectionMedia(ctx context.Context, tx pgx.Tx, media *domain.CarInspectionMedia) error {
	args := m.Called(ctx, tx, media)
	return args.Error(0)
}

func (m *MockRequestRepository) UpdateInvoiceFile(ctx context.Context, tx pgx.Tx, ext *domain.InvoiceExtension) error {
	args := m.Called(ctx, tx, ext)
	return args.Error(0)
}

func (m *MockRequestRepository) UpdateAdvanceImage(ctx context.Context, tx pgx.Tx, ext *domain.AdvancePaymentExtension) error {
	args := m.Called(ctx, tx, ext)
	return args.Error(0)
}

func (m *MockRequestRepository) SetRemoteFolderTx(ctx context.Context, tx pgx.Tx, requestID int64, folderID, folderURL string) error {
	args := m.Called(ctx, tx, requestID, folderID, folderURL)
	return args.Error(0)
}

func (m *MockRequestRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockRequestRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRequestRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock collaborator repositories ---

type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) FindEmployeeByID(ctx context.Context, employeeID int64) (*domain.Employee, error) {
	args := m.Called(ctx, employeeID)
	var e *domain.Employee
	if args.Get(0) != nil {
		e = args.Get(0).(*domain.Employee)
	}
	return e, args.Error(1)
}

func (m *MockEmployeeRepository) FindEmployeeByCode(ctx context.Context, employeeCode string) (*domain.Employee, error) {
	args := m.Called(ctx, employeeCode)
	var e *domain.Employee
	if args.Get(0) != nil {
		e = args.Get(0).(*domain.Employee)
	}
	return e, args.Error(1)
}

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) FindVehicleByID(ctx context.Context, vehicleID int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, vehicleID)
	var v *domain.Vehicle
	if args.Get(0) != nil {
		v = args.Get(0).(*domain.Vehicle)
	}
	return v, args.Error(1)
}

func (m *MockVehicleRepository) ListActiveVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	args := m.Called(ctx)
	var vehicles []domain.Vehicle
	if args.Get(0) != nil {
		vehicles = args.Get(0).([]domain.Vehicle)
	}
	return vehicles, args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) CreateNotification(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) CreateNotificationTx(ctx context.Context, tx pgx.Tx, n *domain.Notification) error {
	args := m.Called(ctx, tx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListNotifications(ctx context.Context, employeeID int64, page, perPage int) ([]domain.Notification, int64, int64, error) {
	args := m.Called(ctx, employeeID, page, perPage)
	var items []domain.Notification
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.Notification)
	}
	return items, args.Get(1).(int64), args.Get(2).(int64), args.Error(3)
}

func (m *MockNotificationRepository) MarkNotificationRead(ctx context.Context, notificationID int64, employeeID int64) (bool, error) {
	args := m.Called(ctx, notificationID, employeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllNotificationsRead(ctx context.Context, employeeID int64) (int64, error) {
	args := m.Called(ctx, employeeID)
	return args.Get(0).(int64), args.Error(1)
}

type MockLiabilityRepository struct {
	mock.Mock
}

func (m *MockLiabilityRepository) CreateLiabilityTx(ctx context.Context, tx pgx.Tx, l *domain.Liability) error {
	args := m.Called(ctx, tx, l)
	return args.Error(0)
}

func (m *MockLiabilityRepository) ListLiabilitiesByEmployee(ctx context.Context, employeeID int64) ([]domain.Liability, error) {
	args := m.Called(ctx, employeeID)
	var items []domain.Liability
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.Liability)
	}
	return items, args.Error(1)
}

func (m *MockLiabilityRepository) SumActiveLiabilities(ctx context.Context, employeeID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, employeeID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Storage fakes ---

type MockLocalStore struct {
	mock.Mock
}

func (m *MockLocalStore) SaveLocal(category storage.Category, originalName string, r io.Reader) (string, int64, error) {
	args := m.Called(category, originalName, r)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockLocalStore) AbsPath(relPath string) string {
	return relPath
}

// disabledMirror stands in for a remote store that is not configured.
type disabledMirror struct{}

func (disabledMirror) Enabled() bool { return false }
func (disabledMirror) EnsureRequestFolder(ctx context.Context, typeTag string, requestID int64, employeeName string, vehicleCode *string) *storage.RemoteFolder {
	return nil
}
func (disabledMirror) MirrorFile(ctx context.Context, localRelPath, folderID, displayName string) *storage.RemoteFile {
	return nil
}

// --- Test Suite ---

type RequestServiceTestSuite struct {
	suite.Suite
	requestRepo      *MockRequestRepository
	employeeRepo     *MockEmployeeRepository
	vehicleRepo      *MockVehicleRepository
	notificationRepo *MockNotificationRepository
	liabilityRepo    *MockLiabilityRepository
	localStore       *MockLocalStore
	service          portssvc.RequestSvcFacade
	owner            *domain.Employee
}

func (suite *RequestServiceTestSuite) SetupTest() {
	suite.requestRepo = new(MockRequestRepository)
	suite.employeeRepo = new(MockEmployeeRepository)
	suite.vehicleRepo = new(MockVehicleRepository)
	suite.notificationRepo = new(MockNotificationRepository)
	suite.liabilityRepo = new(MockLiabilityRepository)
	suite.localStore = new(MockLocalStore)
	suite.service = suite.newService(decimal.Zero)

	jobTitle := "Driver"
	department := "Fleet"
	suite.owner = &domain.Employee{
		ID:             7,
		EmployeeCode:   "EMP-007",
		NationalID:     "1012345678",
		Name:           "أحمد الزهراني",
		JobTitle:       &jobTitle,
		DepartmentName: &department,
		Status:         domain.EmployeeActive,
	}
}

func (suite *RequestServiceTestSuite) newService(advanceCeiling decimal.Decimal) portssvc.RequestSvcFacade {
	repos := &portsrepo.RepositoryProvider{
		RequestRepo:      suite.requestRepo,
		EmployeeRepo:     suite.employeeRepo,
		VehicleRepo:      suite.vehicleRepo,
		NotificationRepo: suite.notificationRepo,
		LiabilityRepo:    suite.liabilityRepo,
	}
	analytics := utils.InitializePosthogClient("", slog.Default())
	return services.NewRequestService(repos, suite.localStore, disabledMirror{}, analytics, advanceCeiling)
}

// --- CreateGeneric Tests ---

func (suite *RequestServiceTestSuite) TestCreateGeneric_UnknownType() {
	ctx := context.Background()

	_, err := suite.service.CreateGeneric(ctx, suite.owner, dto.CreateRequestRequest{Type: "HOLIDAY"})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.requestRepo.AssertNotCalled(suite.T(), "CreateRequest", mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestCreateGeneric_InvoiceRequiresVendor() {
	ctx := context.Background()

	_, err := suite.service.CreateGeneric(ctx, suite.owner, dto.CreateRequestRequest{Type: "invoice"})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RequestServiceTestSuite) TestCreateGeneric_AdvanceSuccess() {
	ctx := context.Background()
	requested := decimal.NewFromInt(3000)
	installments := 4

	suite.requestRepo.On("CreateRequest", ctx, mock.AnythingOfType("*domain.Request")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Request).ID = 42
	}).Return(nil).Once()
	suite.notificationRepo.On("CreateNotification", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.EmployeeID == suite.owner.ID && n.Kind == domain.NotifyInfo && *n.RequestID == 42
	})).Return(nil).Once()

	request, err := suite.service.CreateGeneric(ctx, suite.owner, dto.CreateRequestRequest{
		Type: "advance_payment",
		Details: dto.CreateRequestDetails{
			RequestedAmount: &requested,
			Installments:    &installments,
		},
	})

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPending, request.Status)
	suite.Equal(domain.TypeAdvancePayment.DisplayNameAr(), request.Title)
	suite.Require().NotNil(request.Advance)
	suite.True(request.Advance.RequestedAmount.Equal(requested))
	suite.True(request.Advance.RemainingAmount.Equal(requested))
	suite.Equal(suite.owner.Name, request.Advance.EmployeeName)
	suite.Require().NotNil(request.Advance.InstallmentAmount)
	suite.True(request.Advance.InstallmentAmount.Equal(decimal.NewFromInt(750)))
	suite.requestRepo.AssertExpectations(suite.T())
	suite.notificationRepo.AssertExpectations(suite.T())
}

func (suite *RequestServiceTestSuite) TestCreateGeneric_CarWashUnknownVehicle() {
	ctx := context.Background()
	vehicleID := int64(99)

	suite.vehicleRepo.On("FindVehicleByID", ctx, vehicleID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateGeneric(ctx, suite.owner, dto.CreateRequestRequest{
		Type: "car_wash",
		Details: dto.CreateRequestDetails{
			VehicleID:   &vehicleID,
			ServiceType: "normal",
		},
	})

	suite.Require().ErrorIs(err, apperrors.ErrUnknownVehicle)
}

// --- CreateAdvancePayment Tests ---

func (suite *RequestServiceTestSuite) TestCreateAdvancePayment_CeilingExceeded() {
	ctx := context.Background()
	service := suite.newService(decimal.NewFromInt(1000))

	suite.liabilityRepo.On("SumActiveLiabilities", ctx, suite.owner.ID).Return(decimal.NewFromInt(800), nil).Once()

	_, err := service.CreateAdvancePayment(ctx, suite.owner, dto.CreateAdvancePaymentRequest{
		RequestedAmount: decimal.NewFromInt(300),
	}, nil)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.requestRepo.AssertNotCalled(suite.T(), "CreateRequest", mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestCreateAdvancePayment_ImageSkipsCeiling() {
	ctx := context.Background()
	service := suite.newService(decimal.NewFromInt(1000))

	suite.localStore.On("SaveLocal", storage.CategoryAdvancePayments, "receipt.jpg", mock.Anything).
		Return("advance_payments/receipt.jpg", int64(2048), nil).Once()
	suite.requestRepo.On("CreateRequest", ctx, mock.AnythingOfType("*domain.Request")).Return(nil).Once()
	suite.notificationRepo.On("CreateNotification", ctx, mock.Anything).Return(nil).Once()

	request, err := service.CreateAdvancePayment(ctx, suite.owner, dto.CreateAdvancePaymentRequest{
		RequestedAmount: decimal.NewFromInt(5000),
	}, &storage.FileInput{Name: "receipt.jpg", Reader: strings.NewReader("img")})

	suite.Require().NoError(err)
	suite.Require().NotNil(request.Advance.LocalImagePath)
	suite.Equal("advance_payments/receipt.jpg", *request.Advance.LocalImagePath)
	suite.liabilityRepo.AssertNotCalled(suite.T(), "SumActiveLiabilities", mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestCreateAdvancePayment_RejectsNonImage() {
	ctx := context.Background()

	_, err := suite.service.CreateAdvancePayment(ctx, suite.owner, dto.CreateAdvancePaymentRequest{
		RequestedAmount: decimal.NewFromInt(100),
	}, &storage.FileInput{Name: "statement.pdf", Reader: strings.NewReader("pdf")})

	suite.Require().ErrorIs(err, apperrors.ErrUnsupportedMedia)
}

// --- Review Tests ---

func (suite *RequestServiceTestSuite) pendingAdvanceRequest() *domain.Request {
	requested := decimal.NewFromInt(2500)
	return &domain.Request{
		ID:         11,
		EmployeeID: suite.owner.ID,
		Type:       domain.TypeAdvancePayment,
		Status:     domain.StatusPending,
		Title:      domain.TypeAdvancePayment.DisplayNameAr(),
		Advance: &domain.AdvancePaymentExtension{
			ID:              5,
			RequestID:       11,
			RequestedAmount: requested,
			RemainingAmount: requested,
		},
	}
}

func (suite *RequestServiceTestSuite) TestApproveRequest_AdvanceWritesLiability() {
	ctx := context.Background()
	reviewerID := int64(3)
	request := suite.pendingAdvanceRequest()

	suite.requestRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.requestRepo.On("FindRequestForUpdate", ctx, mock.Anything, request.ID).Return(request, nil).Once()
	suite.requestRepo.On("ReviewRequest", ctx, mock.Anything, request).Return(nil).Once()
	suite.liabilityRepo.On("CreateLiabilityTx", ctx, mock.Anything, mock.MatchedBy(func(l *domain.Liability) bool {
		return l.EmployeeID == suite.owner.ID &&
			l.Type == domain.LiabilityAdvanceRepayment &&
			l.Amount.Equal(decimal.NewFromInt(2500)) &&
			l.RemainingAmount.Equal(decimal.NewFromInt(2500)) &&
			l.PaidAmount.IsZero() &&
			l.Status == domain.LiabilityActive &&
			*l.SourceRequestID == request.ID &&
			*l.CreatedBy == reviewerID
	})).Return(nil).Once()
	suite.notificationRepo.On("CreateNotificationTx", ctx, mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Kind == domain.NotifyApproved && n.EmployeeID == suite.owner.ID
	})).Return(nil).Once()
	suite.requestRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.requestRepo.On("Rollback", ctx, mock.Anything).Return(nil)

	approved, err := suite.service.ApproveRequest(ctx, reviewerID, request.ID, "ok")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, approved.Status)
	suite.Require().NotNil(approved.ReviewerID)
	suite.Equal(reviewerID, *approved.ReviewerID)
	suite.NotNil(approved.ReviewedAt)
	suite.requestRepo.AssertExpectations(suite.T())
	suite.liabilityRepo.AssertExpectations(suite.T())
	suite.notificationRepo.AssertExpectations(suite.T())
}

func (suite *RequestServiceTestSuite) TestApproveRequest_AlreadyReviewed() {
	ctx := context.Background()
	request := suite.pendingAdvanceRequest()
	request.Status = domain.StatusApproved

	suite.requestRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.requestRepo.On("FindRequestForUpdate", ctx, mock.Anything, request.ID).Return(request, nil).Once()
	suite.requestRepo.On("Rollback", ctx, mock.Anything).Return(nil)

	_, err := suite.service.ApproveRequest(ctx, 3, request.ID, "")

	suite.Require().ErrorIs(err, apperrors.ErrAlreadyReviewed)
	suite.requestRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.liabilityRepo.AssertNotCalled(suite.T(), "CreateLiabilityTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestRejectRequest_RequiresReason() {
	ctx := context.Background()

	_, err := suite.service.RejectRequest(ctx, 3, 11, "   ")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.requestRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *RequestServiceTestSuite) TestRejectRequest_Success() {
	ctx := context.Background()
	request := suite.pendingAdvanceRequest()
	reason := "المبلغ أكبر من المسموح"

	suite.requestRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.requestRepo.On("FindRequestForUpdate", ctx, mock.Anything, request.ID).Return(request, nil).Once()
	suite.requestRepo.On("ReviewRequest", ctx, mock.Anything, request).Return(nil).Once()
	suite.notificationRepo.On("CreateNotificationTx", ctx, mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Kind == domain.NotifyRejected && strings.Contains(n.Message, reason)
	})).Return(nil).Once()
	suite.requestRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.requestRepo.On("Rollback", ctx, mock.Anything).Return(nil)

	rejected, err := suite.service.RejectRequest(ctx, 3, request.ID, reason)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusRejected, rejected.Status)
	suite.Require().NotNil(rejected.RejectionReason)
	suite.Equal(reason, *rejected.RejectionReason)
	suite.notificationRepo.AssertExpectations(suite.T())
}

// --- DeleteRequest Tests ---

func (suite *RequestServiceTestSuite) TestDeleteRequest_NotPending() {
	ctx := context.Background()
	request := suite.pendingAdvanceRequest()
	request.Status = domain.StatusApproved

	suite.requestRepo.On("FindRequestByID", ctx, request.ID, &suite.owner.ID).Return(request, nil).Once()

	err := suite.service.DeleteRequest(ctx, suite.owner, request.ID)

	suite.Require().ErrorIs(err, apperrors.ErrNotEditable)
	suite.requestRepo.AssertNotCalled(suite.T(), "DeleteRequest", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestDeleteRequest_Success() {
	ctx := context.Background()
	request := suite.pendingAdvanceRequest()

	suite.requestRepo.On("FindRequestByID", ctx, request.ID, &suite.owner.ID).Return(request, nil).Once()
	suite.requestRepo.On("DeleteRequest", ctx, request.ID, suite.owner.ID).Return(nil).Once()

	err := suite.service.DeleteRequest(ctx, suite.owner, request.ID)

	suite.Require().NoError(err)
	suite.requestRepo.AssertExpectations(suite.T())
}

// --- Statistics / FinancialSummary Tests ---

func (suite *RequestServiceTestSuite) TestStatistics_TotalsAllStatuses() {
	ctx := context.Background()

	suite.requestRepo.On("CountRequestsByStatus", ctx, suite.owner.ID).Return(map[domain.RequestStatus]int64{
		domain.StatusPending:   2,
		domain.StatusApproved:  5,
		domain.StatusRejected:  1,
		domain.StatusCancelled: 3,
	}, nil).Once()

	stats, err := suite.service.Statistics(ctx, suite.owner.ID)

	suite.Require().NoError(err)
	suite.Equal(int64(2), stats.Pending)
	suite.Equal(int64(5), stats.Approved)
	suite.Equal(int64(1), stats.Rejected)
	suite.Equal(int64(11), stats.Total)
}

func (suite *RequestServiceTestSuite) TestFinancialSummary_SumsPendingAdvances() {
	ctx := context.Background()

	suite.liabilityRepo.On("SumActiveLiabilities", ctx, suite.owner.ID).Return(decimal.NewFromInt(1200), nil).Once()
	suite.requestRepo.On("SumPendingAdvances", ctx, suite.owner.ID).Return(decimal.NewFromInt(2500), nil).Once()
	suite.requestRepo.On("CountRequestsByStatus", ctx, suite.owner.ID).Return(map[domain.RequestStatus]int64{
		domain.StatusPending: 1,
	}, nil).Once()

	summary, err := suite.service.FinancialSummary(ctx, suite.owner.ID)

	suite.Require().NoError(err)
	suite.True(summary.ActiveLiabilitiesTotal.Equal(decimal.NewFromInt(1200)))
	suite.True(summary.PendingAdvancesTotal.Equal(decimal.NewFromInt(2500)))
	suite.Equal(int64(1), summary.RequestCounts.Total)
	// The aggregate comes from SQL; no request page is fetched.
	suite.requestRepo.AssertNotCalled(suite.T(), "ListRequests", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Upload Tests ---

func (suite *RequestServiceTestSuite) TestUploadFiles_CarWashFillsSlotsInOrder() {
	ctx := context.Background()
	request := &domain.Request{
		ID:         20,
		EmployeeID: suite.owner.ID,
		Type:       domain.TypeCarWash,
		Status:     domain.StatusPending,
		CarWash: &domain.CarWashExtension{
			ID:    8,
			Media: []domain.CarWashMedia{{ID: 1, Slot: domain.SlotPlate}},
		},
	}

	suite.requestRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.requestRepo.On("FindRequestForUpdate", ctx, mock.Anything, request.ID).Return(request, nil).Once()
	suite.localStore.On("SaveLocal", storage.CategoryCarWash, "one.jpg", mock.Anything).
		Return("car_wash/one.jpg", int64(10), nil).Once()
	suite.localStore.On("SaveLocal", storage.CategoryCarWash, "two.jpg", mock.Anything).
		Return("car_wash/two.jpg", int64(20), nil).Once()
	suite.requestRepo.On("InsertCarWashMedia", ctx, mock.Anything, mock.AnythingOfType("*domain.CarWashMedia")).Return(nil).Twice()
	suite.requestRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.requestRepo.On("Rollback", ctx, mock.Anything).Return(nil)

	descriptors, err := suite.service.UploadFiles(ctx, suite.owner, request.ID, []storage.FileInput{
		{Name: "one.jpg", Reader: strings.NewReader("a")},
		{Name: "notes.txt", Reader: strings.NewReader("b")}, // silently skipped
		{Name: "two.jpg", Reader: strings.NewReader("c")},
	})

	suite.Require().NoError(err)
	suite.Require().Len(descriptors, 2)
	suite.Equal(string(domain.SlotFront), descriptors[0].Slot)
	suite.Equal(string(domain.SlotBack), descriptors[1].Slot)
}

func (suite *RequestServiceTestSuite) TestUploadFiles_InspectionVideoCapExceeded() {
	ctx := context.Background()
	media := make([]domain.CarInspectionMedia, 0, domain.MaxInspectionVideos)
	for i := 0; i < domain.MaxInspectionVideos; i++ {
		media = append(media, domain.CarInspectionMedia{Kind: domain.FileVideo})
	}
	request := &domain.Request{
		ID:         21,
		EmployeeID: suite.owner.ID,
		Type:       domain.TypeCarInspection,
		Status:     domain.StatusPending,
		Inspection: &domain.CarInspectionExtension{ID: 9, Media: media},
	}

	suite.requestRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.requestRepo.On("FindRequestForUpdate", ctx, mock.Anything, request.ID).Return(request, nil).Once()
	suite.requestRepo.On("Rollback", ctx, mock.Anything).Return(nil)

	_, err := suite.service.UploadFiles(ctx, suite.owner, request.ID, []storage.FileInput{
		{Name: "extra.mp4", Reader: strings.NewReader("v")},
	})

	suite.Require().ErrorIs(err, apperrors.ErrQuotaExceeded)
	suite.requestRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestUploadFiles_ForeignRequestReadsNotFound() {
	ctx := context.Background()
	request := suite.pendingAdvanceRequest()
	request.EmployeeID = suite.owner.ID + 1

	suite.requestRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.requestRepo.On("FindRequestForUpdate", ctx, mock.Anything, request.ID).Return(request, nil).Once()
	suite.requestRepo.On("Rollback", ctx, mock.Anything).Return(nil)

	_, err := suite.service.UploadFiles(ctx, suite.owner, request.ID, []storage.FileInput{
		{Name: "a.jpg", Reader: strings.NewReader("x")},
	})

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

// --- Owner edit Tests ---

func (suite *RequestServiceTestSuite) TestUpdateAdvancePayment_RederivesInstallment() {
	ctx := context.Background()
	request := suite.pendingAdvanceRequest()
	installments := 5
	request.Advance.Installments = &installments
	newAmount := decimal.NewFromInt(1000)

	suite.requestRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.requestRepo.On("FindRequestForUpdate", ctx, mock.Anything, request.ID).Return(request, nil).Once()
	suite.requestRepo.On("UpdateAdvanceFields", ctx, mock.Anything, mock.MatchedBy(func(ext *domain.AdvancePaymentExtension) bool {
		return ext.RequestedAmount.Equal(newAmount) &&
			ext.InstallmentAmount != nil && ext.InstallmentAmount.Equal(decimal.NewFromInt(200))
	})).Return(nil).Once()
	suite.requestRepo.On("UpdateRequestAmount", ctx, mock.Anything, request.ID, mock.Anything).Return(nil).Once()
	suite.requestRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.requestRepo.On("Rollback", ctx, mock.Anything).Return(nil)
	suite.requestRepo.On("FindRequestByID", ctx, request.ID, &suite.owner.ID).Return(request, nil).Once()

	_, err := suite.service.UpdateAdvancePayment(ctx, suite.owner, request.ID, dto.UpdateAdvancePaymentRequest{
		RequestedAmount: &newAmount,
	}, nil)

	suite.Require().NoError(err)
	suite.requestRepo.AssertExpectations(suite.T())
}

func (suite *RequestServiceTestSuite) TestUpdateInvoice_TypeMismatch() {
	ctx := context.Background()
	request := suite.pendingAdvanceRequest()

	suite.requestRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.requestRepo.On("FindRequestForUpdate", ctx, mock.Anything, request.ID).Return(request, nil).Once()
	suite.requestRepo.On("Rollback", ctx, mock.Anything).Return(nil)

	_, err := suite.service.UpdateInvoice(ctx, suite.owner, request.ID, dto.UpdateInvoiceRequest{}, nil)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.requestRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestUpdateCarWash_ReviewedRequestWritesNothing() {
	ctx := context.Background()
	scheduled := time.Now()
	request := &domain.Request{
		ID:         30,
		EmployeeID: suite.owner.ID,
		Type:       domain.TypeCarWash,
		Status:     domain.StatusApproved,
		CarWash: &domain.CarWashExtension{
			ID:            12,
			ServiceType:   domain.WashNormal,
			ScheduledDate: &scheduled,
		},
	}

	// The edit takes the same row lock as a review, so a request reviewed
	// moments earlier is seen as such and no field write happens.
	suite.requestRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.requestRepo.On("FindRequestForUpdate", ctx, mock.Anything, request.ID).Return(request, nil).Once()
	suite.requestRepo.On("Rollback", ctx, mock.Anything).Return(nil)

	_, err := suite.service.UpdateCarWash(ctx, suite.owner, request.ID, dto.UpdateCarWashRequest{
		ServiceType: "polish",
	}, nil)

	suite.Require().ErrorIs(err, apperrors.ErrNotEditable)
	suite.requestRepo.AssertNotCalled(suite.T(), "UpdateCarWashFields", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.requestRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

// --- Mirror sweep Tests ---

func (suite *RequestServiceTestSuite) TestRetryPendingMirrors_DisabledIsNoop() {
	ctx := context.Background()

	err := suite.service.RetryPendingMirrors(ctx)

	suite.Require().NoError(err)
	suite.requestRepo.AssertNotCalled(suite.T(), "ListRequestsWithPendingMirrors", mock.Anything, mock.Anything)
}

func TestRequestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RequestServiceTestSuite))
}
