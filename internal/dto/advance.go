package dto

import (
	"time"

	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAdvanceRequest defines the payload to request a new cash custody.
type CreateAdvanceRequest struct {
	ProjectID   string          `json:"projectID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
}

// RejectRequest carries the mandatory reason for rejecting an advance or expense.
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SettleAdvanceRequest defines the payload to close an open advance.
type SettleAdvanceRequest struct {
	ReturnedCashAmount decimal.Decimal `json:"returnedCashAmount"`
	Notes              string          `json:"notes"`
}

// SettlementResponse mirrors the immutable settlement audit record.
type SettlementResponse struct {
	TotalApprovedExpenses decimal.Decimal `json:"totalApprovedExpenses"`
	ReturnedCashAmount    decimal.Decimal `json:"returnedCashAmount"`
	DeficitAmount         decimal.Decimal `json:"deficitAmount"`
	SettlementDate        time.Time       `json:"settlementDate"`
	Notes                 string          `json:"notes,omitempty"`
}

// AdvanceResponse defines the data returned for an advance.
type AdvanceResponse struct {
	AdvanceID       string              `json:"advanceID"`
	ProjectID       string              `json:"projectID"`
	UserID          string              `json:"userID"`
	Amount          decimal.Decimal     `json:"amount"`
	RemainingAmount decimal.Decimal     `json:"remainingAmount"`
	Description     string              `json:"description"`
	Status          string              `json:"status"`
	Date            time.Time           `json:"date"`
	RejectionReason string              `json:"rejectionReason,omitempty"`
	Settlement      *SettlementResponse `json:"settlementData,omitempty"`
}

// ToAdvanceResponse converts a domain.Advance to AdvanceResponse DTO.
func ToAdvanceResponse(a *domain.Advance) AdvanceResponse {
	resp := AdvanceResponse{
		AdvanceID:       a.AdvanceID,
		ProjectID:       a.ProjectID,
		UserID:          a.UserID,
		Amount:          a.Amount,
		RemainingAmount: a.RemainingAmount,
		Description:     a.Description,
		Status:          string(a.Status),
		Date:            a.Date,
		RejectionReason: a.RejectionReason,
	}
	if a.Settlement != nil {
		resp.Settlement = &SettlementResponse{
			TotalApprovedExpenses: a.Settlement.TotalApprovedExpenses,
			ReturnedCashAmount:    a.Settlement.ReturnedCashAmount,
			DeficitAmount:         a.Settlement.DeficitAmount,
			SettlementDate:        a.Settlement.SettlementDate,
			Notes:                 a.Settlement.Notes,
		}
	}
	return resp
}

// ToAdvanceResponses converts a slice of domain.Advance to []AdvanceResponse.
func ToAdvanceResponses(advances []domain.Advance) []AdvanceResponse {
	responses := make([]AdvanceResponse, len(advances))
	for i := range advances {
		responses[i] = ToAdvanceResponse(&advances[i])
	}
	return responses
}
