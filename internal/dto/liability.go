package dto

import (
	"github.com/shopspring/decimal"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
)

// LiabilityListResponse is the owner's liabilities with totals.
type LiabilityListResponse struct {
	Liabilities    []domain.Liability `json:"liabilities"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	TotalRemaining decimal.Decimal    `json:"total_remaining"`
}

// FinancialSummaryResponse is the employee's financial overview.
type FinancialSummaryResponse struct {
	ActiveLiabilitiesTotal decimal.Decimal           `json:"active_liabilities_total"`
	PendingAdvancesTotal   decimal.Decimal           `json:"pending_advances_total"`
	RequestCounts          RequestStatisticsResponse `json:"request_counts"`
}
