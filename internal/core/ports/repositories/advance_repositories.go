package repositories

import (
	"context"

	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
)

// AdvanceReader defines read operations for advance data.
type AdvanceReader interface {
	// FindAdvanceByID retrieves an advance by its unique identifier.
	FindAdvanceByID(ctx context.Context, advanceID string) (*domain.Advance, error)

	// ListAdvancesByProject retrieves all advances issued against a project.
	ListAdvancesByProject(ctx context.Context, projectID string) ([]domain.Advance, error)

	// ListAdvancesByUser retrieves all advances held by a user.
	ListAdvancesByUser(ctx context.Context, userID string) ([]domain.Advance, error)
}

// AdvanceWriter defines write operations for advance data.
type AdvanceWriter interface {
	// SaveAdvance inserts a new advance.
	SaveAdvance(ctx context.Context, advance domain.Advance) error

	// UpdateAdvance persists a lifecycle transition (approve, reject) of an
	// advance, including its status, rejection reason and audit fields.
	UpdateAdvance(ctx context.Context, advance domain.Advance) error

	// CloseAdvance persists the CLOSED transition together with the embedded
	// settlement record in a single statement. The settlement is written
	// exactly once; a second close attempt fails on the status guard.
	CloseAdvance(ctx context.Context, advance domain.Advance) error
}

// AdvanceRepositoryFacade combines all advance repository interfaces.
type AdvanceRepositoryFacade interface {
	AdvanceReader
	AdvanceWriter
}
