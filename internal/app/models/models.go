package models

// Role defines the user role type
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleStudent    Role = "STUDENT"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleStudent:
		return true
	}
	return false
}

// EntityType names the kind of record a transition was applied to
type EntityType string

const (
	EntityApplication EntityType = "application"
	EntityTask        EntityType = "task"
)
