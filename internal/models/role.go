package models

import "fmt"

type Role string

const (
	RoleCitizen Role = "ROLE_CITIZEN"
	RoleOfficer Role = "ROLE_OFFICER"
	RoleAdmin   Role = "ROLE_ADMIN"
)

// ParseRole maps the public role names used by the registration endpoint
// onto the stored role tags.
func ParseRole(name string) (Role, error) {
	switch name {
	case "citizen":
		return RoleCitizen, nil
	case "officer":
		return RoleOfficer, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("invalid role %q, must be citizen|officer|admin", name)
	}
}

// UserRole is a single role membership. A user may hold several roles.
type UserRole struct {
	UserID uint64 `gorm:"primarykey" json:"user_id"`
	Role   Role   `gorm:"primarykey;type:varchar(20)" json:"role"`
}
