package rbac

import "testing"

func TestGuestPermissions(t *testing.T) {
	if !HasPermission("guest", ViewSchedule) {
		t.Error("guest 应拥有 view_schedule")
	}
	if HasPermission("guest", ManageInventory) {
		t.Error("guest 不应拥有 manage_inventory")
	}
}

func TestAdminHasAll(t *testing.T) {
	for _, p := range AllPermissions() {
		if !HasPermission("admin", p) {
			t.Errorf("admin 应拥有 %s", p)
		}
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role string
		perm Permission
		want bool
	}{
		{"lab_manager", ManageFinances, true},
		{"lab_manager", ManageUsers, false},
		{"researcher", ManageProjects, true},
		{"researcher", ManageInventory, false},
		{"student", ViewInventory, true},
		{"student", ManageSchedule, false},
		{"unknown", ViewSchedule, false},
		{"", ViewSchedule, false},
	}

	for _, tt := range tests {
		if got := HasPermission(tt.role, tt.perm); got != tt.want {
			t.Errorf("HasPermission(%q, %s) = %v，期望 %v", tt.role, tt.perm, got, tt.want)
		}
	}
}

func TestPermissions_ReturnsCopy(t *testing.T) {
	perms := Permissions("guest")
	if len(perms) != 1 || perms[0] != ViewSchedule {
		t.Fatalf("guest 权限列表不符合预期: %v", perms)
	}

	perms[0] = ManageUsers
	if HasPermission("guest", ManageUsers) {
		t.Error("修改返回值不应影响权限矩阵")
	}
	if len(Permissions("nobody")) != 0 {
		t.Error("未知角色应返回空列表")
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range Roles() {
		if !ValidRole(string(r)) {
			t.Errorf("%s 应为合法角色", r)
		}
	}
	if ValidRole("superuser") {
		t.Error("superuser 不应为合法角色")
	}
}
