package models

// User is the database row model for a user account.
type User struct {
	UserID       string  `db:"user_id"`
	Name         string  `db:"name"`
	Email        string  `db:"email"`
	PasswordHash string  `db:"password_hash"`
	Role         string  `db:"role"`
	Phone        string  `db:"phone"`
	JobTitle     string  `db:"job_title"`
	AvatarURL    string  `db:"avatar_url"`
	ManagerID    *string `db:"manager_id"`
	RootAdminID  *string `db:"root_admin_id"`
	AuditFields
}
