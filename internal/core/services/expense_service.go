package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/diyaa-Iskandar/petotec-app/internal/apperrors"
	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
	portsrepo "github.com/diyaa-Iskandar/petotec-app/internal/core/ports/repositories"
	portssvc "github.com/diyaa-Iskandar/petotec-app/internal/core/ports/services"
	"github.com/diyaa-Iskandar/petotec-app/internal/dto"
	"github.com/diyaa-Iskandar/petotec-app/internal/platform/metrics"
)

var ErrNotEditable = errors.New("expense is not marked editable")

// expenseService owns expense approval and the atomic balance bookkeeping
// against the owning advance.
type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryFacade
	advanceRepo portsrepo.AdvanceReader
	userRepo    portsrepo.UserReader
	authz       portssvc.AuthorizationSvc
	notifier    portssvc.NotificationSvcFacade
	locks       *AdvanceLocks
}

// NewExpenseService creates the expense approval engine.
func NewExpenseService(
	expenseRepo portsrepo.ExpenseRepositoryFacade,
	advanceRepo portsrepo.AdvanceReader,
	userRepo portsrepo.UserReader,
	authz portssvc.AuthorizationSvc,
	notifier portssvc.NotificationSvcFacade,
	locks *AdvanceLocks,
) portssvc.ExpenseSvcFacade {
	return &expenseService{
		expenseRepo: expenseRepo,
		advanceRepo: advanceRepo,
		userRepo:    userRepo,
		authz:       authz,
		notifier:    notifier,
		locks:       locks,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

func (s *expenseService) actor(ctx context.Context, actorID string) (*domain.User, error) {
	actor, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}
	return actor, nil
}

// claimFromRequest builds the validated amount-or-invoice variant from the
// request payload. All invoice arithmetic failures surface as ErrValidation.
func claimFromRequest(req dto.CreateExpenseRequest) (domain.ExpenseClaim, error) {
	if req.IsInvoice || len(req.InvoiceItems) > 0 {
		items := make([]domain.InvoiceItem, len(req.InvoiceItems))
		for i, line := range req.InvoiceItems {
			items[i] = domain.InvoiceItem{
				ItemID:    uuid.NewString(),
				ItemName:  line.ItemName,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Total:     line.Total,
			}
		}
		claim, err := domain.InvoiceClaim(items, req.AdditionalAmount)
		if err != nil {
			return domain.ExpenseClaim{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		// A client-supplied amount must agree with the derived total.
		if req.Amount != nil && !req.Amount.Equal(claim.Amount()) {
			return domain.ExpenseClaim{}, fmt.Errorf("%w: amount %s does not equal additional amount plus line totals %s",
				apperrors.ErrValidation, req.Amount, claim.Amount())
		}
		return claim, nil
	}

	if req.Amount == nil {
		return domain.ExpenseClaim{}, fmt.Errorf("%w: amount is required for a non-invoice expense", apperrors.ErrValidation)
	}
	claim, err := domain.FlatClaim(*req.Amount)
	if err != nil {
		return domain.ExpenseClaim{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return claim, nil
}

// SubmitExpense creates a PENDING expense against an OPEN advance.
func (s *expenseService) SubmitExpense(ctx context.Context, req dto.CreateExpenseRequest, requesterID string) (*domain.Expense, error) {
	actor, err := s.actor(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, domain.ActionSubmitExpense, requesterID); err != nil {
		return nil, err
	}

	// The OPEN check and the insert must be one unit under the advance
	// lock, or a concurrent settlement could accept an expense onto an
	// advance it is closing.
	release, err := s.locks.Acquire(ctx, req.AdvanceID)
	if err != nil {
		return nil, err
	}
	defer release()

	advance, err := s.advanceRepo.FindAdvanceByID(ctx, req.AdvanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find advance %s: %w", req.AdvanceID, err)
	}
	if advance.Status != domain.AdvanceOpen {
		return nil, fmt.Errorf("%w: advance %s is %s, expenses require OPEN",
			apperrors.ErrConflict, advance.AdvanceID, advance.Status)
	}
	// Custody holders may only claim against their own advance.
	if !actor.Role.IsApprover() && advance.UserID != actor.UserID {
		return nil, fmt.Errorf("%w: expenses may only target the actor's own advance", apperrors.ErrForbidden)
	}

	claim, err := claimFromRequest(req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expense := domain.Expense{
		ExpenseID:        uuid.NewString(),
		AdvanceID:        advance.AdvanceID,
		UserID:           requesterID,
		Amount:           claim.Amount(),
		Description:      req.Description,
		Notes:            req.Notes,
		ImageURL:         req.ImageURL,
		Status:           domain.ExpensePending,
		Date:             now,
		IsInvoice:        claim.IsInvoice(),
		InvoiceItems:     claim.Items(),
		AdditionalAmount: claim.AdditionalAmount(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requesterID,
			LastUpdatedAt: now,
			LastUpdatedBy: requesterID,
		},
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("advance_id", advance.AdvanceID))
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	s.LogInfo(ctx, "Expense submitted",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("advance_id", advance.AdvanceID),
		slog.String("amount", expense.Amount.String()))
	metrics.ExpensesSubmitted.Inc()
	s.notifier.Publish(ctx, domain.Event{
		Kind:      domain.EventExpenseSubmitted,
		ActorID:   requesterID,
		SubjectID: expense.ExpenseID,
		ItemType:  domain.ItemExpense,
		ProjectID: advance.ProjectID,
		OwnerID:   expense.UserID,
		Amount:    expense.Amount,
	})
	return &expense, nil
}

// ApproveExpense sets the expense APPROVED and decrements the owning
// advance's remaining balance as one atomic unit. The balance check and
// decrement run under the advance's lock, so two racing approvals that do
// not both fit resolve deterministically: one succeeds, one fails with
// ErrInsufficientBalance against the refreshed balance.
func (s *expenseService) ApproveExpense(ctx context.Context, expenseID string, actorID string) (*domain.Expense, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, domain.ActionApproveExpense, ""); err != nil {
		return nil, err
	}

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	if expense.Status != domain.ExpensePending {
		return nil, fmt.Errorf("%w: expense %s is %s, approval requires PENDING",
			apperrors.ErrConflict, expenseID, expense.Status)
	}

	release, err := s.locks.Acquire(ctx, expense.AdvanceID)
	if err != nil {
		return nil, err
	}
	defer release()

	advance, err := s.advanceRepo.FindAdvanceByID(ctx, expense.AdvanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find advance %s: %w", expense.AdvanceID, err)
	}
	if advance.Status != domain.AdvanceOpen {
		return nil, fmt.Errorf("%w: advance %s is %s, expense approval requires OPEN",
			apperrors.ErrConflict, advance.AdvanceID, advance.Status)
	}
	if expense.Amount.GreaterThan(advance.RemainingAmount) {
		return nil, fmt.Errorf("%w: expense amount %s exceeds remaining %s on advance %s",
			apperrors.ErrInsufficientBalance, expense.Amount, advance.RemainingAmount, advance.AdvanceID)
	}

	now := time.Now().UTC()
	expense.Status = domain.ExpenseApproved
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = actorID
	advance.RemainingAmount = advance.RemainingAmount.Sub(expense.Amount)
	advance.LastUpdatedAt = now
	advance.LastUpdatedBy = actorID

	if err := s.expenseRepo.ApproveExpenseAndDebit(ctx, *expense, *advance); err != nil {
		s.LogError(ctx, err, "Failed to approve expense", slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to approve expense: %w", err)
	}

	s.LogInfo(ctx, "Expense approved",
		slog.String("expense_id", expenseID),
		slog.String("advance_id", advance.AdvanceID),
		slog.String("remaining", advance.RemainingAmount.String()))
	metrics.ExpensesApproved.Inc()
	s.notifier.Publish(ctx, domain.Event{
		Kind:      domain.EventExpenseApproved,
		ActorID:   actorID,
		SubjectID: expense.ExpenseID,
		ItemType:  domain.ItemExpense,
		ProjectID: advance.ProjectID,
		OwnerID:   expense.UserID,
		Amount:    expense.Amount,
	})
	return expense, nil
}

// RejectExpense sets a PENDING expense REJECTED. No balance effect.
func (s *expenseService) RejectExpense(ctx context.Context, expenseID string, actorID string, reason string) (*domain.Expense, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, domain.ActionRejectExpense, ""); err != nil {
		return nil, err
	}

	if reason == "" {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrReasonMissing)
	}

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	if expense.Status != domain.ExpensePending {
		return nil, fmt.Errorf("%w: expense %s is %s, rejection requires PENDING",
			apperrors.ErrConflict, expenseID, expense.Status)
	}

	now := time.Now().UTC()
	expense.Status = domain.ExpenseRejected
	expense.RejectionReason = reason
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = actorID

	if err := s.expenseRepo.RejectExpense(ctx, *expense); err != nil {
		s.LogError(ctx, err, "Failed to reject expense", slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to reject expense: %w", err)
	}

	s.LogInfo(ctx, "Expense rejected", slog.String("expense_id", expenseID))
	metrics.ExpensesRejected.Inc()
	s.notifier.Publish(ctx, domain.Event{
		Kind:      domain.EventExpenseRejected,
		ActorID:   actorID,
		SubjectID: expense.ExpenseID,
		ItemType:  domain.ItemExpense,
		OwnerID:   expense.UserID,
		Amount:    expense.Amount,
		Reason:    reason,
	})
	return expense, nil
}

// SetEditable flips the approver-controlled edit gate. No other side effects.
func (s *expenseService) SetEditable(ctx context.Context, expenseID string, actorID string, editable bool) (*domain.Expense, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, domain.ActionSetEditable, ""); err != nil {
		return nil, err
	}

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}

	now := time.Now().UTC()
	expense.IsEditable = editable
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = actorID

	if err := s.expenseRepo.SetExpenseEditable(ctx, *expense); err != nil {
		s.LogError(ctx, err, "Failed to update editable flag", slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to update editable flag: %w", err)
	}

	s.LogInfo(ctx, "Expense editable flag set",
		slog.String("expense_id", expenseID),
		slog.Bool("editable", editable))
	return expense, nil
}

// ReviseApprovedExpense changes the amount of an approved, editable expense.
// The old decrement is restored and the new one applied as a single atomic
// re-balance; the resulting remaining amount must stay non-negative.
func (s *expenseService) ReviseApprovedExpense(ctx context.Context, expenseID string, actorID string, newAmount decimal.Decimal) (*domain.Expense, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, domain.ActionReviseExpense, ""); err != nil {
		return nil, err
	}

	if newAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: revised amount must be positive, got %s", apperrors.ErrValidation, newAmount)
	}

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	if expense.Status != domain.ExpenseApproved {
		return nil, fmt.Errorf("%w: expense %s is %s, revision requires APPROVED",
			apperrors.ErrConflict, expenseID, expense.Status)
	}
	if !expense.IsEditable {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrNotEditable)
	}

	release, err := s.locks.Acquire(ctx, expense.AdvanceID)
	if err != nil {
		return nil, err
	}
	defer release()

	advance, err := s.advanceRepo.FindAdvanceByID(ctx, expense.AdvanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find advance %s: %w", expense.AdvanceID, err)
	}
	if advance.Status != domain.AdvanceOpen {
		return nil, fmt.Errorf("%w: advance %s is %s, revision requires OPEN",
			apperrors.ErrConflict, advance.AdvanceID, advance.Status)
	}

	oldAmount := expense.Amount
	rebalanced := advance.RemainingAmount.Add(oldAmount).Sub(newAmount)
	if rebalanced.IsNegative() {
		return nil, fmt.Errorf("%w: revised amount %s exceeds available %s on advance %s",
			apperrors.ErrInsufficientBalance, newAmount, advance.RemainingAmount.Add(oldAmount), advance.AdvanceID)
	}

	now := time.Now().UTC()
	expense.Amount = newAmount
	// A revised amount no longer matches the submitted invoice lines, so the
	// expense becomes a flat claim.
	expense.IsInvoice = false
	expense.InvoiceItems = nil
	expense.AdditionalAmount = decimal.Zero
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = actorID
	advance.RemainingAmount = rebalanced
	advance.LastUpdatedAt = now
	advance.LastUpdatedBy = actorID

	if err := s.expenseRepo.ReviseExpenseAndRebalance(ctx, *expense, *advance); err != nil {
		s.LogError(ctx, err, "Failed to revise expense", slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to revise expense: %w", err)
	}

	s.LogInfo(ctx, "Expense revised",
		slog.String("expense_id", expenseID),
		slog.String("old_amount", oldAmount.String()),
		slog.String("new_amount", newAmount.String()),
		slog.String("remaining", advance.RemainingAmount.String()))
	s.notifier.Publish(ctx, domain.Event{
		Kind:      domain.EventExpenseRevised,
		ActorID:   actorID,
		SubjectID: expense.ExpenseID,
		ItemType:  domain.ItemExpense,
		ProjectID: advance.ProjectID,
		OwnerID:   expense.UserID,
		Amount:    newAmount,
	})
	return expense, nil
}

// GetExpenseByID retrieves an expense. Non-approvers only see their own.
func (s *expenseService) GetExpenseByID(ctx context.Context, expenseID string, actorID string) (*domain.Expense, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	if !actor.Role.IsApprover() && expense.UserID != actor.UserID {
		return nil, apperrors.ErrNotFound
	}
	return expense, nil
}

// ListExpensesByAdvance retrieves the expenses claimed against an advance.
func (s *expenseService) ListExpensesByAdvance(ctx context.Context, advanceID string, actorID string) ([]domain.Expense, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	advance, err := s.advanceRepo.FindAdvanceByID(ctx, advanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find advance %s: %w", advanceID, err)
	}
	if !actor.Role.IsApprover() && advance.UserID != actor.UserID {
		return nil, apperrors.ErrNotFound
	}
	expenses, err := s.expenseRepo.ListExpensesByAdvance(ctx, advanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses for advance %s: %w", advanceID, err)
	}
	return expenses, nil
}
