package policy_test

import (
	"testing"

	"github.com/orderdesk/backoffice/app/models"
	"github.com/orderdesk/backoffice/app/policy"
)

func uintPtr(v uint) *uint { return &v }

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"admin", "manager", "staff"} {
		if _, ok := policy.ParseRole(raw); !ok {
			t.Errorf("expected %q to parse", raw)
		}
	}
	for _, raw := range []string{"", "root", "Admin", "superuser"} {
		if _, ok := policy.ParseRole(raw); ok {
			t.Errorf("expected %q to be rejected", raw)
		}
	}
}

func TestCanView(t *testing.T) {
	assigned := &models.Order{StaffID: uintPtr(7)}
	unassigned := &models.Order{}

	cases := []struct {
		name  string
		actor policy.Actor
		order *models.Order
		want  bool
	}{
		{"admin sees any order", policy.Actor{ID: 1, Role: policy.RoleAdmin}, unassigned, true},
		{"manager sees any order", policy.Actor{ID: 2, Role: policy.RoleManager}, assigned, true},
		{"staff sees own assignment", policy.Actor{ID: 7, Role: policy.RoleStaff}, assigned, true},
		{"staff blocked from others", policy.Actor{ID: 8, Role: policy.RoleStaff}, assigned, false},
		{"staff blocked from unassigned", policy.Actor{ID: 7, Role: policy.RoleStaff}, unassigned, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := policy.CanView(tc.actor, tc.order); got != tc.want {
				t.Errorf("CanView = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScopeStaffID(t *testing.T) {
	if scope := policy.ScopeStaffID(policy.Actor{ID: 1, Role: policy.RoleAdmin}); scope != nil {
		t.Errorf("admin scope should be unrestricted, got %v", *scope)
	}
	if scope := policy.ScopeStaffID(policy.Actor{ID: 2, Role: policy.RoleManager}); scope != nil {
		t.Errorf("manager scope should be unrestricted, got %v", *scope)
	}

	scope := policy.ScopeStaffID(policy.Actor{ID: 7, Role: policy.RoleStaff})
	if scope == nil || *scope != 7 {
		t.Errorf("staff scope should be their own id, got %v", scope)
	}
}

func TestCanAssign(t *testing.T) {
	staffRow := &models.Staff{Role: "staff"}
	managerRow := &models.Staff{Role: "manager"}

	admin := policy.Actor{ID: 1, Role: policy.RoleAdmin}
	manager := policy.Actor{ID: 2, Role: policy.RoleManager}
	staff := policy.Actor{ID: 3, Role: policy.RoleStaff}

	if !policy.CanAssign(admin, staffRow) || !policy.CanAssign(admin, managerRow) {
		t.Error("admin may assign to any staff row")
	}
	if !policy.CanAssign(manager, staffRow) {
		t.Error("manager may assign to plain staff")
	}
	if policy.CanAssign(manager, managerRow) {
		t.Error("manager must not assign to another manager")
	}
	if policy.CanAssign(staff, staffRow) {
		t.Error("staff must not assign at all")
	}
}

func TestCanUnassign(t *testing.T) {
	if !policy.CanUnassign(policy.Actor{Role: policy.RoleAdmin}) {
		t.Error("admin may unassign")
	}
	if !policy.CanUnassign(policy.Actor{Role: policy.RoleManager}) {
		t.Error("manager may unassign")
	}
	if policy.CanUnassign(policy.Actor{Role: policy.RoleStaff}) {
		t.Error("staff must not unassign")
	}
}

func TestCanManageStaff(t *testing.T) {
	admin := policy.Actor{Role: policy.RoleAdmin}
	manager := policy.Actor{Role: policy.RoleManager}
	staff := policy.Actor{Role: policy.RoleStaff}

	if !policy.CanManageStaff(admin, "manager") || !policy.CanManageStaff(admin, "staff") {
		t.Error("admin manages all staff rows")
	}
	if !policy.CanManageStaff(manager, "staff") {
		t.Error("manager manages plain staff")
	}
	if policy.CanManageStaff(manager, "manager") {
		t.Error("manager must not manage managers")
	}
	if policy.CanManageStaff(staff, "staff") {
		t.Error("staff must not manage anyone")
	}
}
