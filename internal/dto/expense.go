package dto

import (
	"time"

	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest defines one itemized invoice line as submitted.
// The line total is recomputed and checked server-side.
type InvoiceItemRequest struct {
	ItemName  string          `json:"itemName" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"required"`
	Total     decimal.Decimal `json:"total" binding:"required"`
}

// CreateExpenseRequest defines the payload to submit an expense against an
// open advance. Either Amount (flat claim) or InvoiceItems (invoice claim)
// must be present; the service rejects inconsistent combinations.
type CreateExpenseRequest struct {
	AdvanceID        string               `json:"advanceID" binding:"required"`
	Description      string               `json:"description" binding:"required"`
	Notes            string               `json:"notes"`
	ImageURL         string               `json:"imageUrl"`
	Amount           *decimal.Decimal     `json:"amount"`
	IsInvoice        bool                 `json:"isInvoice"`
	InvoiceItems     []InvoiceItemRequest `json:"invoiceItems" binding:"omitempty,dive"`
	AdditionalAmount decimal.Decimal      `json:"additionalAmount"`
}

// SetEditableRequest flips the post-approval edit gate on an expense.
type SetEditableRequest struct {
	Editable *bool `json:"editable" binding:"required"`
}

// ReviseExpenseRequest changes the amount of an approved, editable expense.
type ReviseExpenseRequest struct {
	NewAmount decimal.Decimal `json:"newAmount" binding:"required"`
}

// InvoiceItemResponse defines the data returned for an invoice line.
type InvoiceItemResponse struct {
	ItemID    string          `json:"id"`
	ItemName  string          `json:"itemName"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID        string                `json:"expenseID"`
	AdvanceID        string                `json:"advanceID"`
	UserID           string                `json:"userID"`
	Amount           decimal.Decimal       `json:"amount"`
	Description      string                `json:"description"`
	Notes            string                `json:"notes,omitempty"`
	ImageURL         string                `json:"imageUrl,omitempty"`
	Status           string                `json:"status"`
	Date             time.Time             `json:"date"`
	RejectionReason  string                `json:"rejectionReason,omitempty"`
	IsEditable       bool                  `json:"isEditable"`
	IsInvoice        bool                  `json:"isInvoice"`
	InvoiceItems     []InvoiceItemResponse `json:"invoiceItems,omitempty"`
	AdditionalAmount decimal.Decimal       `json:"additionalAmount"`
}

// ToExpenseResponse converts a domain.Expense to ExpenseResponse DTO.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ExpenseID:        e.ExpenseID,
		AdvanceID:        e.AdvanceID,
		UserID:           e.UserID,
		Amount:           e.Amount,
		Description:      e.Description,
		Notes:            e.Notes,
		ImageURL:         e.ImageURL,
		Status:           string(e.Status),
		Date:             e.Date,
		RejectionReason:  e.RejectionReason,
		IsEditable:       e.IsEditable,
		IsInvoice:        e.IsInvoice,
		AdditionalAmount: e.AdditionalAmount,
	}
	if len(e.InvoiceItems) > 0 {
		resp.InvoiceItems = make([]InvoiceItemResponse, len(e.InvoiceItems))
		for i, item := range e.InvoiceItems {
			resp.InvoiceItems[i] = InvoiceItemResponse{
				ItemID:    item.ItemID,
				ItemName:  item.ItemName,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Total:     item.Total,
			}
		}
	}
	return resp
}

// ToExpenseResponses converts a slice of domain.Expense to []ExpenseResponse.
func ToExpenseResponses(expenses []domain.Expense) []ExpenseResponse {
	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseResponse(&expenses[i])
	}
	return responses
}
