package domain

// Role enumerates portal roles.
type Role string

const (
	RoleWorker     Role = "worker"
	RoleSupervisor Role = "supervisor"
	RoleOfficial   Role = "official"
	RoleHR         Role = "hr"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleWorker, RoleSupervisor, RoleOfficial, RoleHR:
		return true
	}
	return false
}

// IsStaff reports whether the role manages grievances rather than only submitting them.
func (r Role) IsStaff() bool {
	return r == RoleOfficial || r == RoleHR
}

func (r Role) String() string { return string(r) }
