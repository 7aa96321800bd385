// Package policy is the single authority for role rules. Both the
// assignment engine and the HTTP layer consult it, so the rules cannot
// drift between endpoints.
package policy

import "github.com/orderdesk/backoffice/app/models"

// Role is the actor's tier. Admins are a separate identity space from
// staff/managers (different table, different auth mechanism), but the
// policy layer sees all three uniformly.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// ParseRole validates a raw role string.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleStaff:
		return Role(s), true
	}
	return "", false
}

// Actor is the authenticated identity performing a request. Ephemeral;
// resolved per-request from the session cookie or bearer token.
type Actor struct {
	ID   uint
	Role Role
}

// CanView reports whether actor may see order. Admins and managers have
// global order visibility; staff see only orders assigned to them.
func CanView(actor Actor, order *models.Order) bool {
	switch actor.Role {
	case RoleAdmin, RoleManager:
		return true
	case RoleStaff:
		return order.StaffID != nil && *order.StaffID == actor.ID
	}
	return false
}

// ScopeStaffID returns the staff-id filter that list queries must apply
// server-side for this actor: nil means unrestricted, a non-nil value
// restricts results to orders assigned to that staff id. Listing and
// single-order fetches must both go through the same rule.
func ScopeStaffID(actor Actor) *uint {
	if actor.Role == RoleStaff {
		id := actor.ID
		return &id
	}
	return nil
}

// CanAssign reports whether actor may set target as an order's assignee.
// Admins may assign to any staff row; managers may assign only to rows
// with role "staff" (never to other managers); staff cannot assign.
// Target eligibility (exists, active) is the assignment engine's concern.
func CanAssign(actor Actor, target *models.Staff) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return target.Role == string(RoleStaff)
	}
	return false
}

// CanUnassign reports whether actor may clear an order's assignee.
func CanUnassign(actor Actor) bool {
	return actor.Role == RoleAdmin || actor.Role == RoleManager
}

// CanManageStaff reports whether actor may create or edit a staff row
// with the given role. Managers administer only plain staff accounts.
func CanManageStaff(actor Actor, targetRole string) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return targetRole == string(RoleStaff)
	}
	return false
}
