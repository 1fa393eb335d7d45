package domain

// ProjectStatus indicates whether a project accepts new advances.
type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "ACTIVE"
	ProjectArchived ProjectStatus = "ARCHIVED"
)

// Project represents an engineering project advances are issued against.
// Archiving is a one-way transition; an archived project accepts no new advances.
type Project struct {
	ProjectID string        `json:"projectID"` // Primary Key (UUID)
	Name      string        `json:"name"`
	Location  string        `json:"location"`
	ManagerID string        `json:"managerId"` // FK -> users.user_id, lookup only
	Status    ProjectStatus `json:"status"`
	AuditFields
}
