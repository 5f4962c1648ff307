package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
	"github.com/najmfleet/employee_requests_app/internal/core/services"
)

type NotificationServiceTestSuite struct {
	suite.Suite
	notificationRepo *MockNotificationRepository
	service          *services.NotificationService
	ctx              context.Context
}

func (s *NotificationServiceTestSuite) SetupTest() {
	s.notificationRepo = new(MockNotificationRepository)
	s.service = services.NewNotificationService(s.notificationRepo)
	s.ctx = context.Background()
}

func (s *NotificationServiceTestSuite) TestListNotifications_CarriesUnreadCount() {
	items := []domain.Notification{
		{ID: 12, EmployeeID: 7, Kind: domain.NotifyApproved, Title: "تمت الموافقة على طلبك"},
		{ID: 11, EmployeeID: 7, Kind: domain.NotifyInfo, Title: "تم استلام طلبك", IsRead: true},
	}
	s.notificationRepo.On("ListNotifications", s.ctx, int64(7), 1, 20).Return(items, int64(42), int64(5), nil).Once()

	got, pagination, err := s.service.ListNotifications(s.ctx, 7, 1, 20)

	s.Require().NoError(err)
	s.Len(got, 2)
	s.Equal(int64(42), pagination.Total)
	s.Equal(int64(5), pagination.UnreadCount)
	s.Equal(3, pagination.Pages)
	s.notificationRepo.AssertExpectations(s.T())
}

func (s *NotificationServiceTestSuite) TestListNotifications_RepoError() {
	s.notificationRepo.On("ListNotifications", s.ctx, int64(7), 1, 20).
		Return(nil, int64(0), int64(0), errors.New("connection reset")).Once()

	_, _, err := s.service.ListNotifications(s.ctx, 7, 1, 20)

	s.Require().Error(err)
}

func (s *NotificationServiceTestSuite) TestMarkRead_Passthrough() {
	s.notificationRepo.On("MarkNotificationRead", s.ctx, int64(12), int64(7)).Return(true, nil).Once()

	ok, err := s.service.MarkRead(s.ctx, 12, 7)

	s.Require().NoError(err)
	s.True(ok)
}

func (s *NotificationServiceTestSuite) TestMarkRead_ForeignRowNotMatched() {
	s.notificationRepo.On("MarkNotificationRead", s.ctx, int64(12), int64(99)).Return(false, nil).Once()

	ok, err := s.service.MarkRead(s.ctx, 12, 99)

	s.Require().NoError(err)
	s.False(ok)
}

func (s *NotificationServiceTestSuite) TestMarkAllRead_ReturnsCount() {
	s.notificationRepo.On("MarkAllNotificationsRead", s.ctx, int64(7)).Return(int64(4), nil).Once()

	count, err := s.service.MarkAllRead(s.ctx, 7)

	s.Require().NoError(err)
	s.Equal(int64(4), count)
}

func (s *NotificationServiceTestSuite) TestEmit_Success() {
	requestID := int64(42)
	s.notificationRepo.On("CreateNotification", s.ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.EmployeeID == 7 &&
			n.RequestID != nil && *n.RequestID == 42 &&
			n.Kind == domain.NotifyReminder &&
			n.Title == "تذكير"
	})).Return(nil).Once()

	err := s.service.Emit(s.ctx, 7, &requestID, domain.NotifyReminder, "تذكير", "يرجى استكمال مرفقات الطلب")

	s.Require().NoError(err)
	s.notificationRepo.AssertExpectations(s.T())
}

func (s *NotificationServiceTestSuite) TestEmit_WrapsRepoError() {
	s.notificationRepo.On("CreateNotification", s.ctx, mock.Anything).Return(errors.New("insert failed")).Once()

	err := s.service.Emit(s.ctx, 7, nil, domain.NotifyInfo, "تنبيه", "رسالة")

	s.Require().Error(err)
	s.Contains(err.Error(), "failed to emit notification")
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
