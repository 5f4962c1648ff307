package services

import (
	"context"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
)

// AuthSvcFacade authenticates employees for the mobile API and staff for
// the web console, and verifies the tokens both carry.
type AuthSvcFacade interface {
	// LoginEmployee matches the credential pair exactly, requires an ACTIVE
	// employee and mints a bearer token.
	LoginEmployee(ctx context.Context, employeeCode, nationalID string) (*domain.Employee, string, error)

	// VerifyEmployeeToken rejects expired or tampered tokens and re-checks
	// that the resolved employee is still ACTIVE.
	VerifyEmployeeToken(ctx context.Context, token string) (*domain.Employee, error)

	// LoginConsoleUser checks the bcrypt password of a staff account and
	// mints the session cookie value.
	LoginConsoleUser(ctx context.Context, username, password string) (*domain.ConsoleUser, string, error)

	// VerifyConsoleToken resolves a session cookie back to a staff account.
	VerifyConsoleToken(ctx context.Context, token string) (*domain.ConsoleUser, error)
}
