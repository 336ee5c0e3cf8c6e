package domain

import "time"

// User is a directory entry for anyone who can sign in to the portal.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Department   string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor returns the request-scoped view of the user used for authorization.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role, Department: u.Department}
}
