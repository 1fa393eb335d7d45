package services

import (
	"context"

	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
)

// AuthorizationSvc is the single capability check every engine calls before
// mutating state. A denial returns apperrors.ErrForbidden and the engine
// performs no state change.
type AuthorizationSvc interface {
	// Authorize checks whether actor may perform action. For self-scoped
	// actions (requesting advances, submitting expenses) ownerUserID is the
	// user the subject record belongs to; for approver actions it is ignored.
	Authorize(ctx context.Context, actor *domain.User, action domain.Action, ownerUserID string) error
}
