package directory

// Bootstrap dataset loaded into every new Store.
const seedMaxID = 11

func seedData() ([]User, []Role, []Permission) {
	users := []User{
		{ID: 1, Name: "Admin User", Email: "admin@example.com", Status: StatusActive, Role: "admin"},
		{ID: 2, Name: "Editor User", Email: "editor@example.com", Status: StatusActive, Role: "editor"},
		{ID: 3, Name: "Viewer User", Email: "viewer@example.com", Status: StatusInactive, Role: "viewer"},
	}
	roles := []Role{
		{ID: 4, Name: "admin", Description: "Full access to all features", Permissions: []string{"read", "write", "delete", "manage_users", "manage_roles"}},
		{ID: 5, Name: "editor", Description: "Can read and modify content", Permissions: []string{"read", "write"}},
		{ID: 6, Name: "viewer", Description: "Can only view content", Permissions: []string{"read"}},
	}
	permissions := []Permission{
		{ID: 7, Name: "read", Description: "Can read content"},
		{ID: 8, Name: "write", Description: "Can create and edit content"},
		{ID: 9, Name: "delete", Description: "Can delete content"},
		{ID: 10, Name: "manage_users", Description: "Can manage users"},
		{ID: 11, Name: "manage_roles", Description: "Can manage roles and permissions"},
	}
	return users, roles, permissions
}
