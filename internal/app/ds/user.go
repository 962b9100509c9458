package ds

import (
	"strings"

	"backend/internal/app/role"
)

// User is any actor in the hierarchy: admin, manager, area manager, sales
// manager, vendor, client or cleaner. Supervision is a weak back-reference
// stored on the subordinate (SupervisorID), never an owned collection.
type User struct {
	ID       uint   `gorm:"primaryKey"`
	Login    string `gorm:"type:varchar(50);unique;not null"`
	Password string `gorm:"type:varchar(255);not null"`
	Email    string `gorm:"type:varchar(100)"`
	FullName string `gorm:"type:varchar(100)"`

	// Roles is a comma-separated tag list, e.g. "manager" or "sales_manager,cleaner".
	Roles string `gorm:"type:varchar(100);not null;default:'client'"`

	// Geographic scope for single-region actors.
	AssignedState string `gorm:"type:varchar(50)"`
	AssignedCity  string `gorm:"type:varchar(50)"`

	// AssignedStates is the comma-separated state set for multi-region
	// managers. Empty means unrestricted scope.
	AssignedStates string `gorm:"type:varchar(255)"`

	// SupervisorID points one level up the tree: sales manager -> area
	// manager, area manager -> manager. NULL at the top.
	SupervisorID *uint `gorm:"index"`
}

// RoleList returns the parsed role tags.
func (u *User) RoleList() []role.Role {
	return role.ParseList(u.Roles)
}

// HasRole reports whether the user carries the given tag.
func (u *User) HasRole(r role.Role) bool {
	for _, tag := range u.RoleList() {
		if tag == r {
			return true
		}
	}
	return false
}

// StateScope returns the parsed assigned state set for a manager. Empty
// result means no restriction configured.
func (u *User) StateScope() []string {
	if u.AssignedStates == "" {
		return nil
	}
	parts := strings.Split(u.AssignedStates, ",")
	states := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			states = append(states, s)
		}
	}
	return states
}
