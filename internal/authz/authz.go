// Package authz centralizes the capability checks that used to live as
// ad-hoc role and degree comparisons inside each handler. The full role
// model lives in the directory service; only the claims needed here travel
// in the token.
package authz

import (
	"github.com/nziladragao/agenda-api/pkg/auth"
)

// Roles known to the scheduling core. The directory service owns the full
// role model; anything unrecognized gets member-level access.
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleMedium = "medium"
	RoleMember = "member"
)

// CanManageSlots allows publishing and releasing availability windows.
func CanManageSlots(c *auth.Claims) bool {
	switch c.Role {
	case RoleAdmin, RoleStaff, RoleMedium:
		return true
	}
	return false
}

// CanBookFor allows creating appointments on behalf of clients.
func CanBookFor(c *auth.Claims) bool {
	switch c.Role {
	case RoleAdmin, RoleStaff, RoleMedium:
		return true
	}
	return false
}

// CanManageClients allows client directory writes.
func CanManageClients(c *auth.Claims) bool {
	return c.Role == RoleAdmin || c.Role == RoleStaff
}

// CanRecordOutcome allows attaching post-session reports.
func CanRecordOutcome(c *auth.Claims) bool {
	return c.Role == RoleAdmin || c.Role == RoleMedium
}

// CanViewQueue allows reading the notification queue.
func CanViewQueue(c *auth.Claims) bool {
	return c.Role == RoleAdmin || c.Role == RoleStaff
}
