package services

import (
	"context"

	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
	"github.com/diyaa-Iskandar/petotec-app/internal/dto"
)

// ProjectSvcFacade covers the project registry advances are issued against.
type ProjectSvcFacade interface {
	// CreateProject registers a new project. Admin only.
	CreateProject(ctx context.Context, req dto.CreateProjectRequest, actorID string) (*domain.Project, error)

	// GetProjectByID retrieves a project by id.
	GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error)

	// ListProjects retrieves projects, optionally filtered by status.
	ListProjects(ctx context.Context, status *domain.ProjectStatus) ([]domain.Project, error)

	// ArchiveProject transitions a project to ARCHIVED. One-way inside this
	// core; reactivation is an external concern.
	ArchiveProject(ctx context.Context, projectID string, actorID string) (*domain.Project, error)
}
