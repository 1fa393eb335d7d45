package repositories

import (
	"context"

	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByID retrieves a user by its unique identifier.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email address.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers retrieves all users, optionally scoped to a root admin tenant.
	ListUsers(ctx context.Context, rootAdminID *string) ([]domain.User, error)

	// ListUserIDsByRole retrieves the ids of all users holding the given role.
	// The notification router uses this to address the approver pool.
	ListUserIDsByRole(ctx context.Context, role domain.UserRole) ([]string, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	// SaveUser inserts a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates mutable profile fields of a user.
	UpdateUser(ctx context.Context, user domain.User) error
}

// UserRepositoryFacade combines all user repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
