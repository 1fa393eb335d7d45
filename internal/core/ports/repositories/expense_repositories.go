package repositories

import (
	"context"

	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
)

// ExpenseReader defines read operations for expense data.
type ExpenseReader interface {
	// FindExpenseByID retrieves an expense (with invoice lines) by id.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpensesByAdvance retrieves all expenses claimed against an advance.
	ListExpensesByAdvance(ctx context.Context, advanceID string) ([]domain.Expense, error)

	// CountExpensesByAdvanceAndStatus counts expenses on an advance in the
	// given status. Settlement uses this to refuse closing with stragglers.
	CountExpensesByAdvanceAndStatus(ctx context.Context, advanceID string, status domain.ExpenseStatus) (int, error)
}

// ExpenseWriter defines write operations for expense data.
type ExpenseWriter interface {
	// SaveExpense inserts a new expense and its invoice lines.
	SaveExpense(ctx context.Context, expense domain.Expense) error

	// RejectExpense persists the REJECTED transition. The write is guarded
	// on the row still being PENDING; a concurrently approved expense
	// surfaces as ErrConflict instead of being silently overwritten.
	RejectExpense(ctx context.Context, expense domain.Expense) error

	// SetExpenseEditable persists the post-approval edit gate. Only the
	// flag and audit columns are touched.
	SetExpenseEditable(ctx context.Context, expense domain.Expense) error

	// ApproveExpenseAndDebit persists the APPROVED transition of the expense
	// and the decremented remaining balance of its advance atomically, in one
	// database transaction. Partial application of the pair is a correctness
	// bug in the caller's contract; the repository never half-commits.
	ApproveExpenseAndDebit(ctx context.Context, expense domain.Expense, advance domain.Advance) error

	// ReviseExpenseAndRebalance persists a revised approved expense amount and
	// the rebalanced advance remaining amount atomically.
	ReviseExpenseAndRebalance(ctx context.Context, expense domain.Expense, advance domain.Advance) error
}

// ExpenseRepositoryFacade combines all expense repository interfaces.
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}
