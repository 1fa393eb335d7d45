package services

import (
	"context"

	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
	"github.com/diyaa-Iskandar/petotec-app/internal/dto"
)

// AdvanceSvcFacade owns the advance lifecycle (request, approve, reject) and
// the closing settlement.
type AdvanceSvcFacade interface {
	// RequestAdvance creates a PENDING advance for the requester. Fails if
	// the project is archived or the amount is not positive.
	RequestAdvance(ctx context.Context, req dto.CreateAdvanceRequest, requesterID string) (*domain.Advance, error)

	// ApproveAdvance transitions a PENDING advance to OPEN. The remaining
	// amount still equals the issued principal afterwards.
	ApproveAdvance(ctx context.Context, advanceID string, actorID string) (*domain.Advance, error)

	// RejectAdvance transitions a PENDING advance to REJECTED with a
	// non-empty reason.
	RejectAdvance(ctx context.Context, advanceID string, actorID string, reason string) (*domain.Advance, error)

	// SettleAdvance reconciles an OPEN advance and transitions it to CLOSED.
	// Fails while any expense on the advance is still PENDING.
	SettleAdvance(ctx context.Context, advanceID string, actorID string, req dto.SettleAdvanceRequest) (*domain.Advance, error)

	// GetAdvanceByID retrieves an advance visible to the actor.
	GetAdvanceByID(ctx context.Context, advanceID string, actorID string) (*domain.Advance, error)

	// ListAdvancesByProject retrieves the advances issued against a project.
	ListAdvancesByProject(ctx context.Context, projectID string, actorID string) ([]domain.Advance, error)

	// ListAdvancesByUser retrieves the advances held by a user.
	ListAdvancesByUser(ctx context.Context, userID string, actorID string) ([]domain.Advance, error)
}
