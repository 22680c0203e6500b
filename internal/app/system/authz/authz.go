// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/pghub/internal/app/system/auth"
	"github.com/dalemusser/pghub/internal/domain/models"
)

// UserCtx returns the user's role (lowercased), name, row id, and a found flag.
// If no user is present in context or the id is empty, it returns
// "visitor", "", "", false.
func UserCtx(r *http.Request) (role string, name string, userID string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok || strings.TrimSpace(user.ID) == "" {
		return "visitor", "", "", false
	}
	return strings.ToLower(user.Role), user.Name, user.ID, true
}

// IsSuperAdmin reports whether the current request's user is a super admin.
func IsSuperAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleSuperAdmin
}

// IsAdmin reports whether the current request's user is an admin.
// Super admins count as admins.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && (role == models.RoleAdmin || role == models.RoleSuperAdmin)
}

// CanManageBuildings reports whether the user may create, edit, or change
// the status of buildings.
func CanManageBuildings(r *http.Request) bool {
	return HasAnyRole(r, ManageRoles()...)
}

// ManageRoles lists the roles allowed to write building data.
func ManageRoles() []string {
	return []string{models.RoleAdmin, models.RoleSuperAdmin}
}
