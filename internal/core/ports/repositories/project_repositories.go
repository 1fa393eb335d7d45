package repositories

import (
	"context"

	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
)

// ProjectReader defines read operations for project data.
type ProjectReader interface {
	// FindProjectByID retrieves a project by its unique identifier.
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)

	// ListProjects retrieves projects filtered by status; a nil status returns all.
	ListProjects(ctx context.Context, status *domain.ProjectStatus) ([]domain.Project, error)
}

// ProjectWriter defines write operations for project data.
type ProjectWriter interface {
	// SaveProject inserts a new project.
	SaveProject(ctx context.Context, project domain.Project) error

	// UpdateProject updates a project's mutable fields, including status.
	UpdateProject(ctx context.Context, project domain.Project) error
}

// ProjectRepositoryFacade combines all project repository interfaces.
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
}
