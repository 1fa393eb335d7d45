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

var (
	ErrAmountNotPositive = errors.New("advance amount must be positive")
	ErrReasonMissing     = errors.New("rejection reason is required")
)

// advanceService owns advance lifecycle transitions, the remaining-balance
// bookkeeping entry points and the closing settlement.
type advanceService struct {
	BaseService
	advanceRepo portsrepo.AdvanceRepositoryFacade
	expenseRepo portsrepo.ExpenseReader
	projectRepo portsrepo.ProjectReader
	userRepo    portsrepo.UserReader
	authz       portssvc.AuthorizationSvc
	notifier    portssvc.NotificationSvcFacade
	locks       *AdvanceLocks
}

// NewAdvanceService creates the advance lifecycle and settlement engine.
func NewAdvanceService(
	advanceRepo portsrepo.AdvanceRepositoryFacade,
	expenseRepo portsrepo.ExpenseReader,
	projectRepo portsrepo.ProjectReader,
	userRepo portsrepo.UserReader,
	authz portssvc.AuthorizationSvc,
	notifier portssvc.NotificationSvcFacade,
	locks *AdvanceLocks,
) portssvc.AdvanceSvcFacade {
	return &advanceService{
		advanceRepo: advanceRepo,
		expenseRepo: expenseRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		authz:       authz,
		notifier:    notifier,
		locks:       locks,
	}
}

var _ portssvc.AdvanceSvcFacade = (*advanceService)(nil)

func (s *advanceService) actor(ctx context.Context, actorID string) (*domain.User, error) {
	actor, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}
	return actor, nil
}

// RequestAdvance creates a PENDING advance with remainingAmount = amount.
func (s *advanceService) RequestAdvance(ctx context.Context, req dto.CreateAdvanceRequest, requesterID string) (*domain.Advance, error) {
	actor, err := s.actor(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, domain.ActionRequestAdvance, requesterID); err != nil {
		return nil, err
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrAmountNotPositive)
	}

	project, err := s.projectRepo.FindProjectByID(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project %s: %w", req.ProjectID, err)
	}
	if project.Status != domain.ProjectActive {
		return nil, fmt.Errorf("%w: project %s is %s, advances require an ACTIVE project",
			apperrors.ErrConflict, project.ProjectID, project.Status)
	}

	now := time.Now().UTC()
	advance := domain.Advance{
		AdvanceID:       uuid.NewString(),
		ProjectID:       req.ProjectID,
		UserID:          requesterID,
		Amount:          req.Amount,
		RemainingAmount: req.Amount,
		Description:     req.Description,
		Status:          domain.AdvancePending,
		Date:            now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requesterID,
			LastUpdatedAt: now,
			LastUpdatedBy: requesterID,
		},
	}

	if err := s.advanceRepo.SaveAdvance(ctx, advance); err != nil {
		s.LogError(ctx, err, "Failed to save advance request", slog.String("project_id", req.ProjectID))
		return nil, fmt.Errorf("failed to save advance: %w", err)
	}

	s.LogInfo(ctx, "Advance requested", slog.String("advance_id", advance.AdvanceID), slog.String("project_id", req.ProjectID))
	metrics.AdvancesRequested.Inc()
	s.notifier.Publish(ctx, domain.Event{
		Kind:      domain.EventAdvanceRequested,
		ActorID:   requesterID,
		SubjectID: advance.AdvanceID,
		ItemType:  domain.ItemAdvance,
		ProjectID: advance.ProjectID,
		OwnerID:   advance.UserID,
		Amount:    advance.Amount,
	})
	return &advance, nil
}

// ApproveAdvance transitions a PENDING advance to OPEN. The remaining amount
// is untouched and still equals the issued principal.
func (s *advanceService) ApproveAdvance(ctx context.Context, advanceID string, actorID string) (*domain.Advance, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, domain.ActionApproveAdvance, ""); err != nil {
		return nil, err
	}

	advance, err := s.advanceRepo.FindAdvanceByID(ctx, advanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find advance %s: %w", advanceID, err)
	}
	if advance.Status != domain.AdvancePending {
		return nil, fmt.Errorf("%w: advance %s is %s, approval requires PENDING",
			apperrors.ErrConflict, advanceID, advance.Status)
	}

	now := time.Now().UTC()
	advance.Status = domain.AdvanceOpen
	advance.LastUpdatedAt = now
	advance.LastUpdatedBy = actorID

	if err := s.advanceRepo.UpdateAdvance(ctx, *advance); err != nil {
		s.LogError(ctx, err, "Failed to approve advance", slog.String("advance_id", advanceID))
		return nil, fmt.Errorf("failed to approve advance: %w", err)
	}

	s.LogInfo(ctx, "Advance approved", slog.String("advance_id", advanceID))
	metrics.AdvancesApproved.Inc()
	s.notifier.Publish(ctx, domain.Event{
		Kind:      domain.EventAdvanceApproved,
		ActorID:   actorID,
		SubjectID: advance.AdvanceID,
		ItemType:  domain.ItemAdvance,
		ProjectID: advance.ProjectID,
		OwnerID:   advance.UserID,
		Amount:    advance.Amount,
	})
	return advance, nil
}

// RejectAdvance transitions a PENDING advance to REJECTED with a reason.
func (s *advanceService) RejectAdvance(ctx context.Context, advanceID string, actorID string, reason string) (*domain.Advance, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, domain.ActionRejectAdvance, ""); err != nil {
		return nil, err
	}

	if reason == "" {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrReasonMissing)
	}

	advance, err := s.advanceRepo.FindAdvanceByID(ctx, advanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find advance %s: %w", advanceID, err)
	}
	if advance.Status != domain.AdvancePending {
		return nil, fmt.Errorf("%w: advance %s is %s, rejection requires PENDING",
			apperrors.ErrConflict, advanceID, advance.Status)
	}

	now := time.Now().UTC()
	advance.Status = domain.AdvanceRejected
	advance.RejectionReason = reason
	advance.LastUpdatedAt = now
	advance.LastUpdatedBy = actorID

	if err := s.advanceRepo.UpdateAdvance(ctx, *advance); err != nil {
		s.LogError(ctx, err, "Failed to reject advance", slog.String("advance_id", advanceID))
		return nil, fmt.Errorf("failed to reject advance: %w", err)
	}

	s.LogInfo(ctx, "Advance rejected", slog.String("advance_id", advanceID))
	metrics.AdvancesRejected.Inc()
	s.notifier.Publish(ctx, domain.Event{
		Kind:      domain.EventAdvanceRejected,
		ActorID:   actorID,
		SubjectID: advance.AdvanceID,
		ItemType:  domain.ItemAdvance,
		ProjectID: advance.ProjectID,
		OwnerID:   advance.UserID,
		Amount:    advance.Amount,
		Reason:    reason,
	})
	return advance, nil
}

// SettleAdvance reconciles an OPEN advance and closes it.
//
// totalApprovedExpenses = sum of APPROVED expense amounts
// deficit = max(0, amount - totalApprovedExpenses - returnedCash)
//
// A surplus return is recorded as-is but never yields a negative deficit.
func (s *advanceService) SettleAdvance(ctx context.Context, advanceID string, actorID string, req dto.SettleAdvanceRequest) (*domain.Advance, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, domain.ActionSettleAdvance, ""); err != nil {
		return nil, err
	}

	if req.ReturnedCashAmount.IsNegative() {
		return nil, fmt.Errorf("%w: returned cash amount must not be negative", apperrors.ErrValidation)
	}

	release, err := s.locks.Acquire(ctx, advanceID)
	if err != nil {
		return nil, err
	}
	defer release()

	advance, err := s.advanceRepo.FindAdvanceByID(ctx, advanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find advance %s: %w", advanceID, err)
	}
	if advance.Status != domain.AdvanceOpen {
		return nil, fmt.Errorf("%w: advance %s is %s, settlement requires OPEN",
			apperrors.ErrConflict, advanceID, advance.Status)
	}

	pending, err := s.expenseRepo.CountExpensesByAdvanceAndStatus(ctx, advanceID, domain.ExpensePending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending expenses for advance %s: %w", advanceID, err)
	}
	if pending > 0 {
		return nil, fmt.Errorf("%w: advance %s has %d pending expense(s); resolve them before settling",
			apperrors.ErrConflict, advanceID, pending)
	}

	expenses, err := s.expenseRepo.ListExpensesByAdvance(ctx, advanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses for advance %s: %w", advanceID, err)
	}
	totalApproved := decimal.Zero
	for _, e := range expenses {
		if e.Status == domain.ExpenseApproved {
			totalApproved = totalApproved.Add(e.Amount)
		}
	}

	expectedReturn := advance.Amount.Sub(totalApproved)
	deficit := expectedReturn.Sub(req.ReturnedCashAmount)
	if deficit.IsNegative() {
		deficit = decimal.Zero
	}

	now := time.Now().UTC()
	advance.Status = domain.AdvanceClosed
	advance.RemainingAmount = decimal.Zero
	advance.Settlement = &domain.Settlement{
		TotalApprovedExpenses: totalApproved,
		ReturnedCashAmount:    req.ReturnedCashAmount,
		DeficitAmount:         deficit,
		SettlementDate:        now,
		Notes:                 req.Notes,
	}
	advance.LastUpdatedAt = now
	advance.LastUpdatedBy = actorID

	if err := s.advanceRepo.CloseAdvance(ctx, *advance); err != nil {
		s.LogError(ctx, err, "Failed to close advance", slog.String("advance_id", advanceID))
		return nil, fmt.Errorf("failed to close advance: %w", err)
	}

	s.LogInfo(ctx, "Advance settled",
		slog.String("advance_id", advanceID),
		slog.String("total_approved", totalApproved.String()),
		slog.String("deficit", deficit.String()))
	metrics.AdvancesSettled.Inc()
	s.notifier.Publish(ctx, domain.Event{
		Kind:       domain.EventAdvanceSettled,
		ActorID:    actorID,
		SubjectID:  advance.AdvanceID,
		ItemType:   domain.ItemAdvance,
		ProjectID:  advance.ProjectID,
		OwnerID:    advance.UserID,
		Amount:     advance.Amount,
		Deficit:    deficit,
		HadDeficit: deficit.IsPositive(),
	})
	return advance, nil
}

// GetAdvanceByID retrieves an advance. Non-approvers only see their own;
// other records are reported as not found to obscure existence.
func (s *advanceService) GetAdvanceByID(ctx context.Context, advanceID string, actorID string) (*domain.Advance, error) {
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
	return advance, nil
}

// ListAdvancesByProject retrieves a project's advances. Approver only.
func (s *advanceService) ListAdvancesByProject(ctx context.Context, projectID string, actorID string) ([]domain.Advance, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsApprover() {
		return nil, apperrors.ErrForbidden
	}
	advances, err := s.advanceRepo.ListAdvancesByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances for project %s: %w", projectID, err)
	}
	return advances, nil
}

// ListAdvancesByUser retrieves a user's advances. Non-approvers only their own.
func (s *advanceService) ListAdvancesByUser(ctx context.Context, userID string, actorID string) ([]domain.Advance, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsApprover() && userID != actor.UserID {
		return nil, apperrors.ErrForbidden
	}
	advances, err := s.advanceRepo.ListAdvancesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances for user %s: %w", userID, err)
	}
	return advances, nil
}
