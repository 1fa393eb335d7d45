package dto

import (
	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
)

// CreateProjectRequest defines the payload to register a project.
type CreateProjectRequest struct {
	Name      string `json:"name" binding:"required"`
	Location  string `json:"location"`
	ManagerID string `json:"managerId" binding:"required"`
}

// ProjectResponse defines the data returned for a project.
type ProjectResponse struct {
	ProjectID string `json:"projectID"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	ManagerID string `json:"managerId"`
	Status    string `json:"status"`
}

// ToProjectResponse converts a domain.Project to ProjectResponse DTO.
func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ProjectID: p.ProjectID,
		Name:      p.Name,
		Location:  p.Location,
		ManagerID: p.ManagerID,
		Status:    string(p.Status),
	}
}

// ToProjectResponses converts a slice of domain.Project to []ProjectResponse.
func ToProjectResponses(projects []domain.Project) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = ToProjectResponse(&projects[i])
	}
	return responses
}
