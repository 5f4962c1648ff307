package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
	portsrepo "github.com/najmfleet/employee_requests_app/internal/core/ports/repositories"
)

// LiabilityRepository persists employee liabilities.
type LiabilityRepository struct {
	db *pgxpool.Pool
}

func newPgxLiabilityRepository(db *pgxpool.Pool) *LiabilityRepository {
	return &LiabilityRepository{db: db}
}

var _ portsrepo.LiabilityRepositoryFacade = (*LiabilityRepository)(nil)

func (r *LiabilityRepository) CreateLiabilityTx(ctx context.Context, tx pgx.Tx, l *domain.Liability) error {
	query := `
		INSERT INTO employee_liabilities
			(employee_id, liability_type, amount, paid_amount, remaining_amount, description, employee_request_id, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at;`
	err := tx.QueryRow(ctx, query,
		l.EmployeeID, l.Type, l.Amount, l.PaidAmount, l.RemainingAmount,
		l.Description, l.SourceRequestID, l.Status, l.CreatedBy,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert liability: %w", err)
	}
	return nil
}

func (r *LiabilityRepository) ListLiabilitiesByEmployee(ctx context.Context, employeeID int64) ([]domain.Liability, error) {
	query := `
		SELECT id, employee_id, liability_type, amount, paid_amount, remaining_amount, description, employee_request_id, status, created_by, created_at
		FROM employee_liabilities
		WHERE employee_id = $1
		ORDER BY created_at DESC, id DESC;`
	rows, err := r.db.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query liabilities: %w", err)
	}
	defer rows.Close()

	items := []domain.Liability{}
	for rows.Next() {
		var l domain.Liability
		err := rows.Scan(&l.ID, &l.EmployeeID, &l.Type, &l.Amount, &l.PaidAmount, &l.RemainingAmount,
			&l.Description, &l.SourceRequestID, &l.Status, &l.CreatedBy, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan liability row: %w", err)
		}
		items = append(items, l)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating liability rows: %w", rows.Err())
	}
	return items, nil
}

func (r *LiabilityRepository) SumActiveLiabilities(ctx context.Context, employeeID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(remaining_amount), 0)
		FROM employee_liabilities
		WHERE employee_id = $1 AND status = 'ACTIVE';`
	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, query, employeeID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum liabilities: %w", err)
	}
	return sum, nil
}
