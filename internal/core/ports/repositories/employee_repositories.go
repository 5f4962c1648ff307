package repositories

import (
	"context"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
)

// EmployeeRepositoryFacade reads the HR-owned employee records. This
// subsystem never writes them.
type EmployeeRepositoryFacade interface {
	FindEmployeeByID(ctx context.Context, employeeID int64) (*domain.Employee, error)
	FindEmployeeByCode(ctx context.Context, employeeCode string) (*domain.Employee, error)
}
