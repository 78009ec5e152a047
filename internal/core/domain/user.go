package domain

import (
	"strings"
	"time"
)

// Role is one of the fixed society roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleCommittee  Role = "committee"
	RoleResident   Role = "resident"
	RoleTenant     Role = "tenant"
	RoleSecurity   Role = "security"
	RoleTechnician Role = "technician"
)

// DefaultRole is assigned when a registration omits the role.
const DefaultRole = RoleResident

var roles = []Role{RoleAdmin, RoleCommittee, RoleResident, RoleTenant, RoleSecurity, RoleTechnician}

// Roles returns every known role.
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// Valid reports whether r is part of the fixed enumeration.
func (r Role) Valid() bool {
	for _, known := range roles {
		if r == known {
			return true
		}
	}
	return false
}

// SelfAssignable reports whether a role may be picked through public registration.
func (r Role) SelfAssignable() bool {
	return r == RoleResident || r == RoleTenant
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	FlatNumber   string    `json:"flatNumber,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Ref returns the display projection embedded in other entities.
func (u *User) Ref() *UserRef {
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email, FlatNumber: u.FlatNumber}
}

// UserRef is the populated form of a reference to a user.
type UserRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	FlatNumber string `json:"flatNumber,omitempty"`
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
