package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LiabilityStatus is the repayment state of a liability.
type LiabilityStatus string

const (
	LiabilityActive LiabilityStatus = "ACTIVE"
	LiabilityPaid   LiabilityStatus = "PAID"
)

// LiabilityType classifies the origin of a liability. Approval of an
// advance payment writes an ADVANCE_REPAYMENT row.
type LiabilityType string

const (
	LiabilityDamage           LiabilityType = "DAMAGE"
	LiabilityDebt             LiabilityType = "DEBT"
	LiabilityAdvanceRepayment LiabilityType = "ADVANCE_REPAYMENT"
	LiabilityOther            LiabilityType = "OTHER"
)

// Liability is an outstanding financial obligation recorded against an
// employee. SourceRequestID is a weak reference with no cascading delete.
type Liability struct {
	ID              int64           `json:"id"`
	EmployeeID      int64           `json:"employee_id"`
	Type            LiabilityType   `json:"liability_type"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Description     string          `json:"description"`
	SourceRequestID *int64          `json:"employee_request_id,omitempty"`
	Status          LiabilityStatus `json:"status"`
	CreatedBy       *int64          `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
