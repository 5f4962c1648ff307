package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/najmfleet/employee_requests_app/internal/apperrors"
	"github.com/najmfleet/employee_requests_app/internal/core/domain"
	portsrepo "github.com/najmfleet/employee_requests_app/internal/core/ports/repositories"
	portssvc "github.com/najmfleet/employee_requests_app/internal/core/ports/services"
	"github.com/najmfleet/employee_requests_app/internal/middleware"
	"github.com/najmfleet/employee_requests_app/internal/utils"
)

const (
	audienceMobile  = "mobile"
	audienceConsole = "console"
)

// AuthService authenticates mobile employees and console staff. Both token
// kinds are signed with the same secret but carry distinct audiences so one
// can never stand in for the other.
type AuthService struct {
	employeeRepo    portsrepo.EmployeeRepositoryFacade
	consoleUserRepo portsrepo.ConsoleUserRepositoryFacade
	secret          string
	tokenTTL        time.Duration
	consoleTTL      time.Duration
	issuer          string
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	employeeRepo portsrepo.EmployeeRepositoryFacade,
	consoleUserRepo portsrepo.ConsoleUserRepositoryFacade,
	secret, issuer string,
	tokenTTL, consoleTTL time.Duration,
) *AuthService {
	return &AuthService{
		employeeRepo:    employeeRepo,
		consoleUserRepo: consoleUserRepo,
		secret:          secret,
		tokenTTL:        tokenTTL,
		consoleTTL:      consoleTTL,
		issuer:          issuer,
	}
}

var _ portssvc.AuthSvcFacade = (*AuthService)(nil)

// LoginEmployee matches the credential pair exactly against the HR record.
// Lookup misses and national-id mismatches collapse into one unauthorized
// error so the response never reveals which half was wrong.
func (s *AuthService) LoginEmployee(ctx context.Context, employeeCode, nationalID string) (*domain.Employee, string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if employeeCode == "" || nationalID == "" {
		return nil, "", apperrors.ErrValidation
	}

	employee, err := s.employeeRepo.FindEmployeeByCode(ctx, employeeCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.ErrUnauthorized
		}
		logger.Error("Employee lookup failed during login", slog.String("error", err.Error()))
		return nil, "", fmt.Errorf("failed to look up employee: %w", err)
	}
	if employee.NationalID != nationalID {
		return nil, "", apperrors.ErrUnauthorized
	}
	if !employee.IsActive() {
		return nil, "", apperrors.ErrInactiveAccount
	}

	token, err := utils.GenerateJWTWithAudience(employee.EmployeeCode, audienceMobile, s.secret, s.tokenTTL, s.issuer)
	if err != nil {
		logger.Error("Token generation failed", slog.String("error", err.Error()))
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info("Employee logged in", slog.Int64("employee_id", employee.ID))
	return employee, token, nil
}

// VerifyEmployeeToken validates a mobile bearer token and resolves the
// employee row, re-checking that the account is still ACTIVE. The subject
// is the external employee code, never the database id.
func (s *AuthService) VerifyEmployeeToken(ctx context.Context, token string) (*domain.Employee, error) {
	claims, err := utils.ParseAndValidateJWT(token, s.secret)
	if err != nil {
		return nil, err
	}
	if !claimsHaveAudience(claims.Audience, audienceMobile) {
		return nil, apperrors.ErrUnauthorized
	}
	if claims.Subject == "" {
		return nil, apperrors.ErrUnauthorized
	}

	employee, err := s.employeeRepo.FindEmployeeByCode(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve token subject: %w", err)
	}
	if !employee.IsActive() {
		return nil, apperrors.ErrInactiveAccount
	}
	return employee, nil
}

// LoginConsoleUser checks a staff account's bcrypt password and mints the
// session cookie value.
func (s *AuthService) LoginConsoleUser(ctx context.Context, username, password string) (*domain.ConsoleUser, string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.consoleUserRepo.FindConsoleUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.ErrUnauthorized
		}
		logger.Error("Console user lookup failed", slog.String("error", err.Error()))
		return nil, "", fmt.Errorf("failed to look up console user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", apperrors.ErrUnauthorized
	}

	token, err := utils.GenerateJWTWithAudience(strconv.FormatInt(user.ID, 10), audienceConsole, s.secret, s.consoleTTL, s.issuer)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	logger.Info("Console user logged in", slog.Int64("console_user_id", user.ID))
	return user, token, nil
}

// VerifyConsoleToken resolves a session cookie back to the staff account.
func (s *AuthService) VerifyConsoleToken(ctx context.Context, token string) (*domain.ConsoleUser, error) {
	claims, err := utils.ParseAndValidateJWT(token, s.secret)
	if err != nil {
		return nil, err
	}
	if !claimsHaveAudience(claims.Audience, audienceConsole) {
		return nil, apperrors.ErrUnauthorized
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.consoleUserRepo.FindConsoleUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve session subject: %w", err)
	}
	return user, nil
}

func claimsHaveAudience(audience []string, want string) bool {
	for _, a := range audience {
		if a == want {
			return true
		}
	}
	return false
}
