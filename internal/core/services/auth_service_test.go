package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/najmfleet/employee_requests_app/internal/apperrors"
	"github.com/najmfleet/employee_requests_app/internal/core/domain"
	"github.com/najmfleet/employee_requests_app/internal/core/services"
	"github.com/najmfleet/employee_requests_app/internal/utils"
)

type MockConsoleUserRepository struct {
	mock.Mock
}

func (m *MockConsoleUserRepository) FindConsoleUserByUsername(ctx context.Context, username string) (*domain.ConsoleUser, error) {
	args := m.Called(ctx, username)
	var u *domain.ConsoleUser
	if args.Get(0) != nil {
		u = args.Get(0).(*domain.ConsoleUser)
	}
	return u, args.Error(1)
}

func (m *MockConsoleUserRepository) FindConsoleUserByID(ctx context.Context, id int64) (*domain.ConsoleUser, error) {
	args := m.Called(ctx, id)
	var u *domain.ConsoleUser
	if args.Get(0) != nil {
		u = args.Get(0).(*domain.ConsoleUser)
	}
	return u, args.Error(1)
}

type AuthServiceTestSuite struct {
	suite.Suite
	employeeRepo    *MockEmployeeRepository
	consoleUserRepo *MockConsoleUserRepository
	service         *services.AuthService
	ctx             context.Context
	employee        *domain.Employee
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.employeeRepo = new(MockEmployeeRepository)
	s.consoleUserRepo = new(MockConsoleUserRepository)
	s.service = services.NewAuthService(
		s.employeeRepo,
		s.consoleUserRepo,
		"test-secret",
		"era-backend-test",
		time.Hour,
		12*time.Hour,
	)
	s.ctx = context.Background()
	s.employee = &domain.Employee{
		ID:           7,
		EmployeeCode: "EMP-007",
		NationalID:   "1098765432",
		Name:         "سالم الدوسري",
		Status:       domain.EmployeeActive,
	}
}

func (s *AuthServiceTestSuite) TestLoginEmployee_Success() {
	s.employeeRepo.On("FindEmployeeByCode", s.ctx, "EMP-007").Return(s.employee, nil).Once()

	employee, token, err := s.service.LoginEmployee(s.ctx, "EMP-007", "1098765432")

	s.Require().NoError(err)
	s.Require().NotNil(employee)
	s.Equal(int64(7), employee.ID)
	s.NotEmpty(token)
	s.employeeRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLoginEmployee_TokenSubjectIsEmployeeCode() {
	s.employeeRepo.On("FindEmployeeByCode", s.ctx, "EMP-007").Return(s.employee, nil).Once()

	_, token, err := s.service.LoginEmployee(s.ctx, "EMP-007", "1098765432")
	s.Require().NoError(err)

	// The token carries the external employee code, never the database id.
	claims, err := utils.ParseAndValidateJWT(token, "test-secret")
	s.Require().NoError(err)
	s.Equal("EMP-007", claims.Subject)
}

func (s *AuthServiceTestSuite) TestLoginEmployee_EmptyCredentials() {
	_, _, err := s.service.LoginEmployee(s.ctx, "", "1098765432")
	s.Require().ErrorIs(err, apperrors.ErrValidation)

	_, _, err = s.service.LoginEmployee(s.ctx, "EMP-007", "")
	s.Require().ErrorIs(err, apperrors.ErrValidation)

	s.employeeRepo.AssertNotCalled(s.T(), "FindEmployeeByCode", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLoginEmployee_NationalIDMismatch() {
	s.employeeRepo.On("FindEmployeeByCode", s.ctx, "EMP-007").Return(s.employee, nil).Once()

	_, _, err := s.service.LoginEmployee(s.ctx, "EMP-007", "9999999999")

	s.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *AuthServiceTestSuite) TestLoginEmployee_UnknownCode() {
	s.employeeRepo.On("FindEmployeeByCode", s.ctx, "EMP-404").Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := s.service.LoginEmployee(s.ctx, "EMP-404", "1098765432")

	// Unknown code and wrong national id must be indistinguishable.
	s.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *AuthServiceTestSuite) TestLoginEmployee_InactiveAccount() {
	inactive := *s.employee
	inactive.Status = domain.EmployeeTerminated
	s.employeeRepo.On("FindEmployeeByCode", s.ctx, "EMP-007").Return(&inactive, nil).Once()

	_, _, err := s.service.LoginEmployee(s.ctx, "EMP-007", "1098765432")

	s.Require().ErrorIs(err, apperrors.ErrInactiveAccount)
}

func (s *AuthServiceTestSuite) TestVerifyEmployeeToken_RoundTrip() {
	s.employeeRepo.On("FindEmployeeByCode", s.ctx, "EMP-007").Return(s.employee, nil).Twice()

	_, token, err := s.service.LoginEmployee(s.ctx, "EMP-007", "1098765432")
	s.Require().NoError(err)

	employee, err := s.service.VerifyEmployeeToken(s.ctx, token)

	s.Require().NoError(err)
	s.Equal(int64(7), employee.ID)
	s.employeeRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestVerifyEmployeeToken_WrongSecret() {
	forged, err := utils.GenerateJWTWithAudience("EMP-007", "mobile", "other-secret", time.Hour, "era-backend-test")
	s.Require().NoError(err)

	_, err = s.service.VerifyEmployeeToken(s.ctx, forged)

	s.Require().Error(err)
	s.employeeRepo.AssertNotCalled(s.T(), "FindEmployeeByCode", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestVerifyEmployeeToken_RejectsConsoleAudience() {
	hash, err := utils.HashPassword("s3cret-pass")
	s.Require().NoError(err)
	user := &domain.ConsoleUser{ID: 3, Username: "admin", PasswordHash: hash, IsAdmin: true}
	s.consoleUserRepo.On("FindConsoleUserByUsername", s.ctx, "admin").Return(user, nil).Once()

	_, token, err := s.service.LoginConsoleUser(s.ctx, "admin", "s3cret-pass")
	s.Require().NoError(err)

	// A console session cookie must never pass as a mobile bearer token.
	_, err = s.service.VerifyEmployeeToken(s.ctx, token)
	s.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *AuthServiceTestSuite) TestVerifyEmployeeToken_InactiveAfterIssue() {
	s.employeeRepo.On("FindEmployeeByCode", s.ctx, "EMP-007").Return(s.employee, nil).Once()

	_, token, err := s.service.LoginEmployee(s.ctx, "EMP-007", "1098765432")
	s.Require().NoError(err)

	terminated := *s.employee
	terminated.Status = domain.EmployeeTerminated
	s.employeeRepo.On("FindEmployeeByCode", s.ctx, "EMP-007").Return(&terminated, nil).Once()

	_, err = s.service.VerifyEmployeeToken(s.ctx, token)

	s.Require().ErrorIs(err, apperrors.ErrInactiveAccount)
}

func (s *AuthServiceTestSuite) TestLoginConsoleUser_Success() {
	hash, err := utils.HashPassword("s3cret-pass")
	s.Require().NoError(err)
	user := &domain.ConsoleUser{ID: 3, Username: "admin", PasswordHash: hash, DisplayName: "مشرف", IsAdmin: true}
	s.consoleUserRepo.On("FindConsoleUserByUsername", s.ctx, "admin").Return(user, nil).Once()

	got, token, err := s.service.LoginConsoleUser(s.ctx, "admin", "s3cret-pass")

	s.Require().NoError(err)
	s.Equal("admin", got.Username)
	s.NotEmpty(token)
}

func (s *AuthServiceTestSuite) TestLoginConsoleUser_WrongPassword() {
	hash, err := utils.HashPassword("s3cret-pass")
	s.Require().NoError(err)
	user := &domain.ConsoleUser{ID: 3, Username: "admin", PasswordHash: hash}
	s.consoleUserRepo.On("FindConsoleUserByUsername", s.ctx, "admin").Return(user, nil).Once()

	_, _, err = s.service.LoginConsoleUser(s.ctx, "admin", "wrong-pass")

	s.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *AuthServiceTestSuite) TestLoginConsoleUser_UnknownUsername() {
	s.consoleUserRepo.On("FindConsoleUserByUsername", s.ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := s.service.LoginConsoleUser(s.ctx, "ghost", "whatever")

	s.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *AuthServiceTestSuite) TestVerifyConsoleToken_RoundTrip() {
	hash, err := utils.HashPassword("s3cret-pass")
	s.Require().NoError(err)
	user := &domain.ConsoleUser{ID: 3, Username: "admin", PasswordHash: hash, IsAdmin: true}
	s.consoleUserRepo.On("FindConsoleUserByUsername", s.ctx, "admin").Return(user, nil).Once()
	s.consoleUserRepo.On("FindConsoleUserByID", s.ctx, int64(3)).Return(user, nil).Once()

	_, token, err := s.service.LoginConsoleUser(s.ctx, "admin", "s3cret-pass")
	s.Require().NoError(err)

	got, err := s.service.VerifyConsoleToken(s.ctx, token)

	s.Require().NoError(err)
	s.True(got.IsAdmin)
	s.consoleUserRepo.AssertExpectations(s.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
