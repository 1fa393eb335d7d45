package models

// Project is the database row model for a project.
type Project struct {
	ProjectID string `db:"project_id"`
	Name      string `db:"name"`
	Location  string `db:"location"`
	ManagerID string `db:"manager_id"`
	Status    string `db:"status"`
	AuditFields
}
