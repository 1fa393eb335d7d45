package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/diyaa-Iskandar/petotec-app/internal/apperrors"
	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
	portssvc "github.com/diyaa-Iskandar/petotec-app/internal/core/ports/services"
)

// selfScoped marks actions a non-approver may perform only on their own records.
type capability struct {
	roles      map[domain.UserRole]bool
	selfScoped bool
}

// capabilities is the single capability table for the whole application.
// Permission logic lives here and nowhere else; engines never re-derive it.
var capabilities = map[domain.Action]capability{
	domain.ActionRequestAdvance: {roles: allRoles(), selfScoped: true},
	domain.ActionSubmitExpense:  {roles: allRoles(), selfScoped: true},
	domain.ActionApproveAdvance: {roles: approverOnly()},
	domain.ActionRejectAdvance:  {roles: approverOnly()},
	domain.ActionSettleAdvance:  {roles: approverOnly()},
	domain.ActionApproveExpense: {roles: approverOnly()},
	domain.ActionRejectExpense:  {roles: approverOnly()},
	domain.ActionSetEditable:    {roles: approverOnly()},
	domain.ActionReviseExpense:  {roles: approverOnly()},
	domain.ActionArchiveProject: {roles: approverOnly()},
	domain.ActionManageProjects: {roles: approverOnly()},
	domain.ActionManageUsers:    {roles: approverOnly()},
}

func allRoles() map[domain.UserRole]bool {
	return map[domain.UserRole]bool{
		domain.RoleAdmin:      true,
		domain.RoleEngineer:   true,
		domain.RoleTechnician: true,
	}
}

func approverOnly() map[domain.UserRole]bool {
	return map[domain.UserRole]bool{domain.RoleAdmin: true}
}

// authorizationService implements the capability-table policy.
type authorizationService struct {
	BaseService
}

// NewAuthorizationService creates the authorization policy service.
func NewAuthorizationService() portssvc.AuthorizationSvc {
	return &authorizationService{}
}

var _ portssvc.AuthorizationSvc = (*authorizationService)(nil)

// Authorize checks the capability table for the actor's role. Self-scoped
// actions additionally require the subject record to belong to the actor,
// except for admins who act across all records.
func (s *authorizationService) Authorize(ctx context.Context, actor *domain.User, action domain.Action, ownerUserID string) error {
	if actor == nil {
		return apperrors.ErrUnauthorized
	}

	entry, known := capabilities[action]
	if !known {
		s.LogWarn(ctx, "Unknown action in authorization check", slog.String("action", string(action)))
		return fmt.Errorf("%w: unknown action %s", apperrors.ErrForbidden, action)
	}

	if !entry.roles[actor.Role] {
		s.LogDebug(ctx, "Role lacks capability",
			slog.String("user_id", actor.UserID),
			slog.String("role", string(actor.Role)),
			slog.String("action", string(action)))
		return fmt.Errorf("%w: role %s may not %s", apperrors.ErrForbidden, actor.Role, action)
	}

	if entry.selfScoped && actor.Role != domain.RoleAdmin && ownerUserID != actor.UserID {
		s.LogDebug(ctx, "Self-scoped action attempted on another user's record",
			slog.String("user_id", actor.UserID),
			slog.String("owner_user_id", ownerUserID),
			slog.String("action", string(action)))
		return fmt.Errorf("%w: %s is restricted to the actor's own records", apperrors.ErrForbidden, action)
	}

	return nil
}
