package domain

// Actor is the caller of an operation, rebuilt from the user directory on every request.
type Actor struct {
	ID         string
	Role       Role
	Department string
}

// IsHROfficial reports whether the actor is an official posted to an HR-class department.
func (a Actor) IsHROfficial() bool {
	return a.Role == RoleOfficial && IsHRDepartment(a.Department)
}
