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
)

// projectService owns the project registry that advances are issued against.
type projectService struct {
	BaseService
	projectRepo portsrepo.ProjectRepositoryFacade
	userRepo    portsrepo.UserReader
	authz       portssvc.AuthorizationSvc
}

// NewProjectService creates the project service.
func NewProjectService(
	projectRepo portsrepo.ProjectRepositoryFacade,
	userRepo portsrepo.UserReader,
	authz portssvc.AuthorizationSvc,
) portssvc.ProjectSvcFacade {
	return &projectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		authz:       authz,
	}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

func (s *projectService) actor(ctx context.Context, actorID string) (*domain.User, error) {
	actor, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}
	return actor, nil
}

// CreateProject registers a new ACTIVE project. Admin only.
func (s *projectService) CreateProject(ctx context.Context, req dto.CreateProjectRequest, actorID string) (*domain.Project, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, domain.ActionManageProjects, ""); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindUserByID(ctx, req.ManagerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: manager %s does not exist", apperrors.ErrValidation, req.ManagerID)
		}
		return nil, fmt.Errorf("failed to check manager %s: %w", req.ManagerID, err)
	}

	now := time.Now().UTC()
	project := domain.Project{
		ProjectID: uuid.NewString(),
		Name:      req.Name,
		Location:  req.Location,
		ManagerID: req.ManagerID,
		Status:    domain.ProjectActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.projectRepo.SaveProject(ctx, project); err != nil {
		s.LogError(ctx, err, "Failed to save project", slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	s.LogInfo(ctx, "Project created", slog.String("project_id", project.ProjectID))
	return &project, nil
}

// GetProjectByID retrieves a project by id.
func (s *projectService) GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}
	return project, nil
}

// ListProjects retrieves projects, optionally filtered by status.
func (s *projectService) ListProjects(ctx context.Context, status *domain.ProjectStatus) ([]domain.Project, error) {
	projects, err := s.projectRepo.ListProjects(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// ArchiveProject transitions a project to ARCHIVED. One-way; archived
// projects reject new advances but keep their history readable.
func (s *projectService) ArchiveProject(ctx context.Context, projectID string, actorID string) (*domain.Project, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, domain.ActionArchiveProject, ""); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}
	if project.Status == domain.ProjectArchived {
		return nil, fmt.Errorf("%w: project %s is already archived", apperrors.ErrConflict, projectID)
	}

	now := time.Now().UTC()
	project.Status = domain.ProjectArchived
	project.LastUpdatedAt = now
	project.LastUpdatedBy = actorID

	if err := s.projectRepo.UpdateProject(ctx, *project); err != nil {
		s.LogError(ctx, err, "Failed to archive project", slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to archive project: %w", err)
	}

	s.LogInfo(ctx, "Project archived", slog.String("project_id", projectID))
	return project, nil
}
