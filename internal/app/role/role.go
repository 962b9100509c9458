package role

import "strings"

// Role is an actor role tag within the sales/operations hierarchy.
type Role string

const (
	Admin        Role = "admin"
	Manager      Role = "manager"
	AreaManager  Role = "area_manager"
	SalesManager Role = "sales_manager"
	Vendor       Role = "vendor"
	Client       Role = "client"
	Cleaner      Role = "cleaner"
)

// Known reports whether the tag is one of the defined roles.
func Known(r Role) bool {
	switch r {
	case Admin, Manager, AreaManager, SalesManager, Vendor, Client, Cleaner:
		return true
	}
	return false
}

// ParseList splits a comma-separated tag list ("manager,area_manager") into
// roles, dropping empty and unknown tags.
func ParseList(s string) []Role {
	parts := strings.Split(s, ",")
	roles := make([]Role, 0, len(parts))
	for _, p := range parts {
		r := Role(strings.TrimSpace(p))
		if Known(r) {
			roles = append(roles, r)
		}
	}
	return roles
}

// JoinList renders roles back into the stored comma-separated form.
func JoinList(roles []Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}
