// Package authz is the single authoritative policy source. Both the HTTP
// middleware and the service facades consult the same table; no layer
// hand-rolls its own role checks.
package authz

import "fmt"

// Action names a gated operation.
type Action string

const (
	ActionCreateUser Action = "createUser"
	ActionUpdateUser Action = "updateUser"
	ActionDeleteUser Action = "deleteUser"
	ActionCreateRole Action = "createRole"
	ActionUpdateRole Action = "updateRole"
	ActionDeleteRole Action = "deleteRole"
	ActionViewAll    Action = "viewAll"
)

// Well-known role names. Roles outside this table deny everything but view.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// policy is the declarative allow table. Absent entries deny.
var policy = map[string]map[Action]bool{
	RoleAdmin: {
		ActionCreateUser: true,
		ActionUpdateUser: true,
		ActionDeleteUser: true,
		ActionCreateRole: true,
		ActionUpdateRole: true,
		ActionDeleteRole: true,
		ActionViewAll:    true,
	},
	RoleEditor: {
		ActionCreateUser: true,
		ActionUpdateUser: true,
		ActionViewAll:    true,
	},
	RoleViewer: {
		ActionViewAll: true,
	},
}

var actionLabels = map[Action]string{
	ActionCreateUser: "create users",
	ActionUpdateUser: "update users",
	ActionDeleteUser: "delete users",
	ActionCreateRole: "create roles",
	ActionUpdateRole: "update roles",
	ActionDeleteRole: "delete roles",
	ActionViewAll:    "view",
}

// CanPerform reports whether role may perform action. Unknown or absent
// roles may only view.
func CanPerform(role string, action Action) bool {
	if action == ActionViewAll {
		return true
	}
	return policy[role][action]
}

// Explain returns the human-readable denial reason for role and action.
func Explain(role string, action Action) string {
	label := actionLabels[action]
	if label == "" {
		label = string(action)
	}
	if role == "" {
		return fmt.Sprintf("anonymous sessions may not %s", label)
	}
	return fmt.Sprintf("%s users may not %s", role, label)
}
