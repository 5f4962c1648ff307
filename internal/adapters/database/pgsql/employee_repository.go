package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/najmfleet/employee_requests_app/internal/apperrors"
	"github.com/najmfleet/employee_requests_app/internal/core/domain"
	portsrepo "github.com/najmfleet/employee_requests_app/internal/core/ports/repositories"
)

// EmployeeRepository reads the HR-owned employee table.
type EmployeeRepository struct {
	db *pgxpool.Pool
}

func newPgxEmployeeRepository(db *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

var _ portsrepo.EmployeeRepositoryFacade = (*EmployeeRepository)(nil)

const employeeColumns = `id, employee_code, national_id, name, email, mobile, job_title, department_name, profile_image_path, status, created_at`

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	err := row.Scan(
		&e.ID,
		&e.EmployeeCode,
		&e.NationalID,
		&e.Name,
		&e.Email,
		&e.Mobile,
		&e.JobTitle,
		&e.DepartmentName,
		&e.ProfileImagePath,
		&e.Status,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan employee: %w", err)
	}
	return &e, nil
}

func (r *EmployeeRepository) FindEmployeeByID(ctx context.Context, employeeID int64) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1;`
	return scanEmployee(r.db.QueryRow(ctx, query, employeeID))
}

func (r *EmployeeRepository) FindEmployeeByCode(ctx context.Context, employeeCode string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_code = $1;`
	return scanEmployee(r.db.QueryRow(ctx, query, employeeCode))
}
