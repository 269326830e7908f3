// Package rbac 定义实验室系统的角色与权限矩阵。
// 矩阵在编译期确定，运行期只读。
package rbac

// Role 用户角色
type Role string

// Permission 操作权限
type Permission string

const (
	RoleAdmin      Role = "admin"
	RoleLabManager Role = "lab_manager"
	RoleResearcher Role = "researcher"
	RoleStudent    Role = "student"
	RoleGuest      Role = "guest"
)

const (
	ManageInventory       Permission = "manage_inventory"
	ViewInventory         Permission = "view_inventory"
	ManageFinances        Permission = "manage_finances"
	ViewFinances          Permission = "view_finances"
	ManageProjects        Permission = "manage_projects"
	ViewProjects          Permission = "view_projects"
	ManageSchedule        Permission = "manage_schedule"
	ViewSchedule          Permission = "view_schedule"
	ManageUsers           Permission = "manage_users"
	ViewDataVisualization Permission = "view_data_visualization"
	ExportData            Permission = "export_data"
	ManageSettings        Permission = "manage_settings"
)

// DefaultRole 新注册用户的角色
const DefaultRole = RoleGuest

var allPermissions = []Permission{
	ManageInventory, ViewInventory,
	ManageFinances, ViewFinances,
	ManageProjects, ViewProjects,
	ManageSchedule, ViewSchedule,
	ManageUsers, ViewDataVisualization, ExportData, ManageSettings,
}

var allRoles = []Role{RoleAdmin, RoleLabManager, RoleResearcher, RoleStudent, RoleGuest}

var matrix = map[Role][]Permission{
	RoleAdmin: allPermissions,
	RoleLabManager: {
		ManageInventory, ViewInventory,
		ManageFinances, ViewFinances,
		ManageProjects, ViewProjects,
		ManageSchedule, ViewSchedule,
		ViewDataVisualization, ExportData,
	},
	RoleResearcher: {
		ViewInventory, ViewFinances,
		ManageProjects, ViewProjects,
		ManageSchedule, ViewSchedule,
		ViewDataVisualization,
	},
	RoleStudent: {ViewInventory, ViewProjects, ViewSchedule},
	RoleGuest:   {ViewSchedule},
}

var index = buildIndex()

func buildIndex() map[Role]map[Permission]struct{} {
	idx := make(map[Role]map[Permission]struct{}, len(matrix))
	for role, perms := range matrix {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		idx[role] = set
	}
	return idx
}

// HasPermission 判断角色是否拥有指定权限，未知角色一律返回 false
func HasPermission(role string, perm Permission) bool {
	set, ok := index[Role(role)]
	if !ok {
		return false
	}
	_, ok = set[perm]
	return ok
}

// Permissions 返回角色的权限列表副本，未知角色返回空列表
func Permissions(role string) []Permission {
	perms := matrix[Role(role)]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// ValidRole 判断角色名是否合法
func ValidRole(role string) bool {
	_, ok := matrix[Role(role)]
	return ok
}

// Roles 返回全部角色
func Roles() []Role {
	return append([]Role(nil), allRoles...)
}

// AllPermissions 返回全部权限
func AllPermissions() []Permission {
	return append([]Permission(nil), allPermissions...)
}
