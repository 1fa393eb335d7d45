package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/diyaa-Iskandar/petotec-app/internal/apperrors"
	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
	portsrepo "github.com/diyaa-Iskandar/petotec-app/internal/core/ports/repositories"
	portssvc "github.com/diyaa-Iskandar/petotec-app/internal/core/ports/services"
	"github.com/diyaa-Iskandar/petotec-app/internal/dto"
	"github.com/diyaa-Iskandar/petotec-app/internal/utils"
)

// userService owns account provisioning and credential verification.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	authz    portssvc.AuthorizationSvc
}

// NewUserService creates the user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, authz portssvc.AuthorizationSvc) portssvc.UserSvcFacade {
	return &userService{
		userRepo: userRepo,
		authz:    authz,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser provisions a new account with a fixed role. Admin only.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorID string) (*domain.User, error) {
	creator, err := s.userRepo.FindUserByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve creator %s: %w", creatorID, err)
	}
	if err := s.authz.Authorize(ctx, creator, domain.ActionManageUsers, ""); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email %s already registered", apperrors.ErrDuplicate, req.Email)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email %s: %w", req.Email, err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	rootAdminID := creator.RootAdminID
	if rootAdminID == nil {
		rootAdminID = &creator.UserID
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         domain.UserRole(req.Role),
		Phone:        req.Phone,
		JobTitle:     req.JobTitle,
		AvatarURL:    req.AvatarURL,
		ManagerID:    req.ManagerID,
		RootAdminID:  rootAdminID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user", slog.String("email", req.Email))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.LogInfo(ctx, "User created",
		slog.String("user_id", user.UserID),
		slog.String("role", string(user.Role)))
	return &user, nil
}

// GetUserByID retrieves a user by id.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	return user, nil
}

// Authenticate verifies email/password credentials and returns the user.
// Unknown email and wrong password return the same error.
func (s *userService) Authenticate(ctx context.Context, email string, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}
	return user, nil
}

// ListUsers retrieves the team visible to the actor, scoped to the actor's
// root admin tenant.
func (s *userService) ListUsers(ctx context.Context, actorID string) ([]domain.User, error) {
	actor, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}

	rootAdminID := actor.RootAdminID
	if rootAdminID == nil && actor.Role == domain.RoleAdmin {
		rootAdminID = &actor.UserID
	}

	users, err := s.userRepo.ListUsers(ctx, rootAdminID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
