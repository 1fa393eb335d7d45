package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is the database row model for an expense claim.
type Expense struct {
	ExpenseID        string          `db:"expense_id"`
	AdvanceID        string          `db:"advance_id"`
	UserID           string          `db:"user_id"`
	Amount           decimal.Decimal `db:"amount"`
	Description      string          `db:"description"`
	Notes            string          `db:"notes"`
	ImageURL         string          `db:"image_url"`
	Status           string          `db:"status"`
	Date             time.Time       `db:"expense_date"`
	RejectionReason  *string         `db:"rejection_reason"`
	IsEditable       bool            `db:"is_editable"`
	IsInvoice        bool            `db:"is_invoice"`
	AdditionalAmount decimal.Decimal `db:"additional_amount"`
	AuditFields
}

// InvoiceItem is the database row model for one invoice line of an expense.
type InvoiceItem struct {
	ItemID    string          `db:"item_id"`
	ExpenseID string          `db:"expense_id"`
	ItemName  string          `db:"item_name"`
	Quantity  decimal.Decimal `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	Total     decimal.Decimal `db:"total"`
}
