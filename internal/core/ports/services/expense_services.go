package services

import (
	"context"

	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
	"github.com/diyaa-Iskandar/petotec-app/internal/dto"
	"github.com/shopspring/decimal"
)

// ExpenseSvcFacade owns expense approval and the balance bookkeeping it
// implies on the owning advance.
type ExpenseSvcFacade interface {
	// SubmitExpense creates a PENDING expense against an OPEN advance.
	// Invoice-style requests have their line arithmetic validated and the
	// claimed amount derived from the lines.
	SubmitExpense(ctx context.Context, req dto.CreateExpenseRequest, requesterID string) (*domain.Expense, error)

	// ApproveExpense sets the expense APPROVED and decrements the advance's
	// remaining balance as one atomic unit. Fails with
	// apperrors.ErrInsufficientBalance when the amount no longer fits.
	ApproveExpense(ctx context.Context, expenseID string, actorID string) (*domain.Expense, error)

	// RejectExpense sets a PENDING expense REJECTED with a reason. No
	// balance effect.
	RejectExpense(ctx context.Context, expenseID string, actorID string, reason string) (*domain.Expense, error)

	// SetEditable flips the approver-controlled post-approval edit gate.
	SetEditable(ctx context.Context, expenseID string, actorID string, editable bool) (*domain.Expense, error)

	// ReviseApprovedExpense changes the amount of an approved, editable
	// expense, restoring the old decrement and applying the new one as a
	// single atomic re-balance.
	ReviseApprovedExpense(ctx context.Context, expenseID string, actorID string, newAmount decimal.Decimal) (*domain.Expense, error)

	// GetExpenseByID retrieves an expense visible to the actor.
	GetExpenseByID(ctx context.Context, expenseID string, actorID string) (*domain.Expense, error)

	// ListExpensesByAdvance retrieves the expenses claimed against an advance.
	ListExpensesByAdvance(ctx context.Context, advanceID string, actorID string) ([]domain.Expense, error)
}
