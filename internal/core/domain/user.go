package domain

// UserRole defines the role a user holds across the application.
// The role is immutable for the lifetime of a session.
type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"      // accountant / approver
	RoleEngineer   UserRole = "ENGINEER"   // site engineer, custody holder
	RoleTechnician UserRole = "TECHNICIAN" // technician / assistant, custody holder
)

// IsApprover reports whether the role may approve, reject or settle
// advances and expenses.
func (r UserRole) IsApprover() bool {
	return r == RoleAdmin
}

// User represents an application user in the domain.
type User struct {
	UserID       string   `json:"userID"` // Primary Key (UUID)
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	Phone        string   `json:"phone,omitempty"`
	JobTitle     string   `json:"jobTitle,omitempty"`
	AvatarURL    string   `json:"avatarUrl,omitempty"`
	ManagerID    *string  `json:"managerId,omitempty"`   // supervisor relation, lookup only
	RootAdminID  *string  `json:"rootAdminId,omitempty"` // tenant-scoping relation
	AuditFields
}
