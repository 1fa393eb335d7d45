package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus indicates the approval state of an expense claim.
type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "PENDING"
	ExpenseApproved ExpenseStatus = "APPROVED"
	ExpenseRejected ExpenseStatus = "REJECTED"
)

// InvoiceItem is a single itemized line of an invoice-style expense.
// Total = Quantity * UnitPrice always holds for a constructed item.
type InvoiceItem struct {
	ItemID    string          `json:"id"`
	ItemName  string          `json:"itemName"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// CheckInvoiceItem verifies the line arithmetic of an externally supplied item.
func CheckInvoiceItem(item InvoiceItem) error {
	if item.Quantity.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("invoice item %q: quantity must be positive", item.ItemName)
	}
	if item.UnitPrice.IsNegative() {
		return fmt.Errorf("invoice item %q: unit price must not be negative", item.ItemName)
	}
	if !item.Total.Equal(item.Quantity.Mul(item.UnitPrice)) {
		return fmt.Errorf("invoice item %q: total %s does not equal quantity %s x unit price %s",
			item.ItemName, item.Total, item.Quantity, item.UnitPrice)
	}
	return nil
}

// ExpenseClaim is the amount side of a submitted expense: either a flat
// amount or an itemized invoice with a derived total. The unexported fields
// make the two constructors the only way to build one, so the invoice
// arithmetic invariant holds by construction.
type ExpenseClaim struct {
	isInvoice        bool
	amount           decimal.Decimal
	items            []InvoiceItem
	additionalAmount decimal.Decimal
}

// FlatClaim builds a claim for a plain (non-invoice) amount.
func FlatClaim(amount decimal.Decimal) (ExpenseClaim, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ExpenseClaim{}, fmt.Errorf("expense amount must be positive, got %s", amount)
	}
	return ExpenseClaim{amount: amount}, nil
}

// InvoiceClaim builds an itemized claim. The claim amount is derived:
// additionalAmount + sum of line totals. Every line is checked.
func InvoiceClaim(items []InvoiceItem, additionalAmount decimal.Decimal) (ExpenseClaim, error) {
	if len(items) == 0 {
		return ExpenseClaim{}, fmt.Errorf("invoice expense requires at least one line item")
	}
	if additionalAmount.IsNegative() {
		return ExpenseClaim{}, fmt.Errorf("additional amount must not be negative, got %s", additionalAmount)
	}
	total := additionalAmount
	for _, item := range items {
		if err := CheckInvoiceItem(item); err != nil {
			return ExpenseClaim{}, err
		}
		total = total.Add(item.Total)
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return ExpenseClaim{}, fmt.Errorf("invoice total must be positive, got %s", total)
	}
	return ExpenseClaim{
		isInvoice:        true,
		amount:           total,
		items:            items,
		additionalAmount: additionalAmount,
	}, nil
}

// Amount returns the claimed total.
func (c ExpenseClaim) Amount() decimal.Decimal { return c.amount }

// IsInvoice reports whether the claim carries an itemized breakdown.
func (c ExpenseClaim) IsInvoice() bool { return c.isInvoice }

// Items returns the invoice lines (nil for a flat claim).
func (c ExpenseClaim) Items() []InvoiceItem { return c.items }

// AdditionalAmount returns the non-itemized remainder of an invoice claim.
func (c ExpenseClaim) AdditionalAmount() decimal.Decimal { return c.additionalAmount }

// Expense is a spend claim logged against an open Advance. Approval reduces
// the owning advance's remaining balance by Amount.
type Expense struct {
	ExpenseID        string          `json:"expenseID"` // Primary Key (UUID)
	AdvanceID        string          `json:"advanceID"` // FK -> advances.advance_id
	UserID           string          `json:"userID"`    // submitting custody holder
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	Notes            string          `json:"notes,omitempty"`
	ImageURL         string          `json:"imageUrl,omitempty"` // receipt photo reference
	Status           ExpenseStatus   `json:"status"`
	Date             time.Time       `json:"date"`
	RejectionReason  string          `json:"rejectionReason,omitempty"`
	IsEditable       bool            `json:"isEditable"` // approver-controlled post-approval edit gate
	IsInvoice        bool            `json:"isInvoice"`
	InvoiceItems     []InvoiceItem   `json:"invoiceItems,omitempty"`
	AdditionalAmount decimal.Decimal `json:"additionalAmount"`
	AuditFields
}
