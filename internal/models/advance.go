package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Advance is the database row model for an advance. The settlement columns
// are nullable and written exactly once, at closing.
type Advance struct {
	AdvanceID       string          `db:"advance_id"`
	ProjectID       string          `db:"project_id"`
	UserID          string          `db:"user_id"`
	Amount          decimal.Decimal `db:"amount"`
	RemainingAmount decimal.Decimal `db:"remaining_amount"`
	Description     string          `db:"description"`
	Status          string          `db:"status"`
	Date            time.Time       `db:"advance_date"`
	RejectionReason *string         `db:"rejection_reason"`

	SettlementTotalApproved *decimal.Decimal `db:"settlement_total_approved"`
	SettlementReturnedCash  *decimal.Decimal `db:"settlement_returned_cash"`
	SettlementDeficit       *decimal.Decimal `db:"settlement_deficit"`
	SettlementDate          *time.Time       `db:"settlement_date"`
	SettlementNotes         *string          `db:"settlement_notes"`

	AuditFields
}
