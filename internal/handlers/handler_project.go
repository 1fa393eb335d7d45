package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
	portssvc "github.com/diyaa-Iskandar/petotec-app/internal/core/ports/services"
	"github.com/diyaa-Iskandar/petotec-app/internal/dto"
	"github.com/diyaa-Iskandar/petotec-app/internal/middleware"
)

// projectHandler handles HTTP requests related to projects.
type projectHandler struct {
	projectService portssvc.ProjectSvcFacade
	advanceService portssvc.AdvanceSvcFacade
}

func newProjectHandler(ps portssvc.ProjectSvcFacade, as portssvc.AdvanceSvcFacade) *projectHandler {
	return &projectHandler{projectService: ps, advanceService: as}
}

// registerProjectRoutes registers all project-related routes.
func registerProjectRoutes(rg *gin.RouterGroup, projectService portssvc.ProjectSvcFacade, advanceService portssvc.AdvanceSvcFacade) {
	h := newProjectHandler(projectService, advanceService)

	projects := rg.Group("/projects")
	{
		projects.POST("", h.createProject) // Admin only
		projects.GET("", h.listProjects)
		projects.GET("/:id", h.getProject)
		projects.POST("/:id/archive", h.archiveProject) // Admin only
		projects.GET("/:id/advances", h.listAdvances)   // Admin only
	}
}

// createProject godoc
// @Summary Create a project
// @Description Registers a new active project. Admin only.
// @Tags projects
// @Accept json
// @Produce json
// @Param project body dto.CreateProjectRequest true "Project details"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects [post]
func (h *projectHandler) createProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requesterID, ok := actorID(c)
	if !ok {
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), req, requesterID)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Project created", slog.String("project_id", project.ProjectID))
	c.JSON(http.StatusCreated, dto.ToProjectResponse(project))
}

// getProject godoc
// @Summary Get a project by ID
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects/{id} [get]
func (h *projectHandler) getProject(c *gin.Context) {
	if _, ok := actorID(c); !ok {
		return
	}

	project, err := h.projectService.GetProjectByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// listProjects godoc
// @Summary List projects
// @Description Lists projects, optionally filtered by status (ACTIVE or ARCHIVED).
// @Tags projects
// @Produce json
// @Param status query string false "Project status filter"
// @Success 200 {array} dto.ProjectResponse
// @Security BearerAuth
// @Router /projects [get]
func (h *projectHandler) listProjects(c *gin.Context) {
	if _, ok := actorID(c); !ok {
		return
	}

	var status *domain.ProjectStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.ProjectStatus(raw)
		if s != domain.ProjectActive && s != domain.ProjectArchived {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid status filter"})
			return
		}
		status = &s
	}

	projects, err := h.projectService.ListProjects(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponses(projects))
}

// archiveProject godoc
// @Summary Archive a project
// @Description Transitions a project to ARCHIVED. Archived projects reject new advances. Admin only.
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects/{id}/archive [post]
func (h *projectHandler) archiveProject(c *gin.Context) {
	requesterID, ok := actorID(c)
	if !ok {
		return
	}

	project, err := h.projectService.ArchiveProject(c.Request.Context(), c.Param("id"), requesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// listAdvances godoc
// @Summary List advances of a project
// @Description Lists all advances issued against a project. Admin only.
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {array} dto.AdvanceResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects/{id}/advances [get]
func (h *projectHandler) listAdvances(c *gin.Context) {
	requesterID, ok := actorID(c)
	if !ok {
		return
	}

	advances, err := h.advanceService.ListAdvancesByProject(c.Request.Context(), c.Param("id"), requesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAdvanceResponses(advances))
}
