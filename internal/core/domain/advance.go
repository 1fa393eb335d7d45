package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdvanceStatus indicates the lifecycle state of an advance (cash custody).
type AdvanceStatus string

const (
	AdvancePending  AdvanceStatus = "PENDING"  // requested, awaiting approval
	AdvanceOpen     AdvanceStatus = "OPEN"     // approved, custody active
	AdvanceClosed   AdvanceStatus = "CLOSED"   // settled
	AdvanceRejected AdvanceStatus = "REJECTED" // request denied
)

// Settlement is the closing reconciliation of an advance. It is written
// exactly once, at the CLOSED transition, and never mutated afterwards.
type Settlement struct {
	TotalApprovedExpenses decimal.Decimal `json:"totalApprovedExpenses"`
	ReturnedCashAmount    decimal.Decimal `json:"returnedCashAmount"`
	DeficitAmount         decimal.Decimal `json:"deficitAmount"`
	SettlementDate        time.Time       `json:"settlementDate"`
	Notes                 string          `json:"notes,omitempty"`
}

// Advance is the central aggregate: a cash custody issued to a user against
// a project, spent down through approved expenses and later reconciled.
//
// While OPEN, 0 <= RemainingAmount <= Amount holds at all times.
// RemainingAmount is frozen once the advance is CLOSED or REJECTED.
type Advance struct {
	AdvanceID       string          `json:"advanceID"` // Primary Key (UUID)
	ProjectID       string          `json:"projectID"` // FK -> projects.project_id
	UserID          string          `json:"userID"`    // requesting custody holder
	Amount          decimal.Decimal `json:"amount"`    // issued principal, fixed at approval
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Description     string          `json:"description"`
	Status          AdvanceStatus   `json:"status"`
	Date            time.Time       `json:"date"`
	RejectionReason string          `json:"rejectionReason,omitempty"` // present iff REJECTED
	Settlement      *Settlement     `json:"settlementData,omitempty"`  // present iff CLOSED
	AuditFields
}

// IsTerminal reports whether the advance can undergo no further lifecycle
// transition. OPEN is terminal with respect to re-approval but not closure.
func (s AdvanceStatus) IsTerminal() bool {
	return s == AdvanceClosed || s == AdvanceRejected
}
