package domain

import "time"

// Role names a coarse authorization level granted to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is the domain model for registered accounts.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Roles returns the role names carried into issued access tokens.
func (u *User) Roles() []string {
	if u.Role == "" {
		return nil
	}
	return []string{string(u.Role)}
}
