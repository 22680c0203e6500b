// internal/domain/models/status.go
package models

// Row status values shared by buildings, rooms, students and admin users.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Admin roles.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// DefaultSiteName is shown in the page header.
const DefaultSiteName = "PGHub"
