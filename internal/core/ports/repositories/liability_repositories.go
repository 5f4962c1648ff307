package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
)

// LiabilityRepositoryFacade writes and reads employee liabilities. The
// approval path inserts inside the review transaction.
type LiabilityRepositoryFacade interface {
	CreateLiabilityTx(ctx context.Context, tx pgx.Tx, l *domain.Liability) error
	ListLiabilitiesByEmployee(ctx context.Context, employeeID int64) ([]domain.Liability, error)
	SumActiveLiabilities(ctx context.Context, employeeID int64) (decimal.Decimal, error)
}
