// internal/domain/models/admin.go
package models

// AdminUser is a dashboard operator. PasswordHash is a bcrypt hash and is
// never rendered.
type AdminUser struct {
	ID           RowID     `json:"id,omitempty"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	LastLoginAt  Timestamp `json:"last_login_at"`
}

var AdminUserColumns = []string{"id", "username", "password_hash", "full_name", "role", "status", "last_login_at"}
