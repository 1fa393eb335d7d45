package services

import (
	"context"

	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
	"github.com/diyaa-Iskandar/petotec-app/internal/dto"
)

// UserSvcFacade covers account provisioning and lookup. Role assignment
// happens here, at provisioning time; a user's role is immutable per session.
type UserSvcFacade interface {
	// CreateUser provisions a new account. Admin only.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorID string) (*domain.User, error)

	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// Authenticate verifies email/password credentials and returns the user.
	Authenticate(ctx context.Context, email string, password string) (*domain.User, error)

	// ListUsers retrieves the team visible to the actor.
	ListUsers(ctx context.Context, actorID string) ([]domain.User, error)
}
