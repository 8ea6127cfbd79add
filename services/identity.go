package services

const (
	RoleUser       = "user"
	RoleHost       = "host"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Identity is the already-resolved caller passed into core operations, so
// services never reach into ambient request or session state.
type Identity struct {
	ID   uint
	Role string
}

// IsAdmin reports whether the caller bypasses ownership checks.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin || i.Role == RoleSuperAdmin
}
