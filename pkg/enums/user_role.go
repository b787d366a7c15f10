package enums

import "fmt"

// UserRole is the access level attached to a profile.
type UserRole string

const (
	UserRolePublic     UserRole = "PUBLIC_USER"
	UserRoleSubscriber UserRole = "SUBSCRIBER"
)

var validUserRoles = []UserRole{
	UserRolePublic,
	UserRoleSubscriber,
}

// String returns the literal string for the role.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the role is known.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
